package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// JSONHandler wires one API route of a stub backend.
type JSONHandler struct {
	Method string
	Path   string
	Status int
	Body   any
}

// NewAPIServer starts an httptest server answering the given routes with JSON
// and 404 for everything else. Cleanup is registered automatically.
func NewAPIServer(t testing.TB, routes ...JSONHandler) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for _, route := range routes {
		route := route
		mux.HandleFunc(route.Path, func(w http.ResponseWriter, r *http.Request) {
			if route.Method != "" && r.Method != route.Method {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			status := route.Status
			if status == 0 {
				status = http.StatusOK
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if route.Body != nil {
				if err := json.NewEncoder(w).Encode(route.Body); err != nil {
					t.Errorf("encode stub response for %s: %v", route.Path, err)
				}
			}
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
