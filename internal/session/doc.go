// Package session persists the authenticated user and bearer token between
// CLI invocations.
//
// State lives in a single JSON file under the configured state directory,
// guarded by a file lock so concurrent invocations never interleave writes.
// The user and token are stored and cleared together: hydration never yields
// a token without its user or a user without a token.
package session
