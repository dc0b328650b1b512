// Command rationale is the terminal client for the Rationale Studio backend.
//
// It drives the media and manual rationale workflows (start, watch, save,
// sign, restart), browses the dashboard and saved reports, and administers
// users, API keys, channels, uploaded files, and the PDF template.
package main
