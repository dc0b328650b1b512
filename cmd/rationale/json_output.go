package main

import (
	"encoding/json"
	"io"
)

// writeJSON prints v as two-space indented JSON, the shape every --json flag
// emits so output can be piped into jq.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
