// Package history keeps a local SQLite mirror of jobs the CLI has touched.
//
// Every job snapshot observed while polling or acting on a job is upserted
// here, together with the terminal action the user last chose for it (save or
// save-and-sign). The mirror powers offline job listings and lets a restarted
// process replay the chosen action after a restart-from-step run finishes.
// The backend remains authoritative; rows here are display and replay state
// only.
package history
