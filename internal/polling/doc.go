// Package polling runs a fixed-interval poll loop against the backend.
//
// A Poller owns at most one active loop: starting it again cancels the
// previous loop before the new one begins, and Stop is idempotent and waits
// for the loop to exit so callers can act on state without a tick racing
// them. Tick errors are logged and the loop continues; only a stop signal
// from the tick, Stop, or context cancellation ends it.
package polling
