package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "job": map[string]any{"id": "J1"}})
	}))
	defer server.Close()

	client, err := New(server.URL, WithToken("tok-123"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Job(context.Background(), "J1"); err != nil {
		t.Fatalf("Job: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClientDecodesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Admin access required"})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.ListUsers(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("error type %T, want *ServerError", err)
	}
	if serverErr.StatusCode != http.StatusForbidden {
		t.Fatalf("StatusCode = %d", serverErr.StatusCode)
	}
	if serverErr.Message != "Admin access required" {
		t.Fatalf("Message = %q", serverErr.Message)
	}
}

func TestLoginRequiresCredentialsBeforeNetwork(t *testing.T) {
	client, err := New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Login(context.Background(), "", "secret"); err == nil {
		t.Fatal("expected error for empty email")
	}
	if _, err := client.Login(context.Background(), "a@b.c", ""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestLoginAdoptsNothingOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := client.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if result != nil {
		t.Fatalf("result = %+v, want nil", result)
	}
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized = false for %v", err)
	}
}

func TestDashboardQueryEncodesFilters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(DashboardPage{Limit: 10})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	query := DashboardQuery{
		Search:   "wrap",
		Tool:     "media",
		Status:   "running",
		DateFrom: "2026-08-01",
		DateTo:   "2026-08-30",
		Limit:    10,
		Offset:   20,
	}
	if _, err := client.Dashboard(context.Background(), query); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	want := []string{"search=wrap", "tool=media", "status=running", "date_from=2026-08-01", "date_to=2026-08-30", "limit=10", "offset=20"}
	for _, fragment := range want {
		if !containsParam(gotQuery, fragment) {
			t.Fatalf("query %q missing %q", gotQuery, fragment)
		}
	}
}

func containsParam(rawQuery, fragment string) bool {
	for _, part := range splitQuery(rawQuery) {
		if part == fragment {
			return true
		}
	}
	return false
}

func splitQuery(rawQuery string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(rawQuery); i++ {
		if i == len(rawQuery) || rawQuery[i] == '&' {
			parts = append(parts, rawQuery[start:i])
			start = i + 1
		}
	}
	return parts
}

func TestUploadSignedBuildsMultipart(t *testing.T) {
	var gotContentType, gotJobID, gotFilename string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotJobID = r.FormValue("jobId")
		if file, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
			file.Close()
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	content := strings.NewReader("%PDF-1.7")
	if err := client.UploadSigned(context.Background(), "JOB-9", "signed.pdf", content); err != nil {
		t.Fatalf("UploadSigned: %v", err)
	}

	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("Content-Type = %q", gotContentType)
	}
	if gotJobID != "JOB-9" {
		t.Fatalf("jobId = %q", gotJobID)
	}
	if gotFilename != "signed.pdf" {
		t.Fatalf("filename = %q", gotFilename)
	}
}
