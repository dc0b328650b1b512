// Package workflow drives the client-side job workflow for the two rationale
// tools.
//
// The Media controller mirrors a server-driven 14-step pipeline: it starts or
// resumes a job, polls job state on a fixed interval, detects the terminal
// "PDF ready" condition, and applies user actions (save, save-and-sign,
// signed upload, restart-from-step). The Manual controller simulates its
// 6-step pipeline locally because the backend exposes no job endpoint for it.
//
// Stage transitions and their notifications are deduplicated on the
// (resolved PDF path, target stage) pair so a settled job never re-fires.
// The workflow stage is a non-authoritative view of server state; the server
// always wins.
package workflow
