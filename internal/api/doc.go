// Package api provides the REST client for the Rationale Studio backend.
//
// It is the single deserialization boundary for the wire format: server
// payloads arrive with a mix of camelCase and snake_case spellings, and the
// types here normalize both into one canonical shape before any other package
// sees them. All requests carry the bearer token when one is set, and all
// non-2xx responses decode into a *ServerError carrying the backend's error
// message verbatim.
package api
