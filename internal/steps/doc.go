// Package steps derives display status for pipeline steps.
//
// A step's effective status is resolved in strict precedence order: an
// explicit status from the server wins, then a completed-step count, then the
// job's current step pointer, and finally pending. The resolution is pure so
// renderers and tests share one source of truth.
package steps
