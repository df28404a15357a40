package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("missing custom header")
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.URL, FetchOptions{Headers: map[string]string{"X-Test": "yes"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Fetch() = %q, want %q", data, "payload")
	}
	if !strings.HasPrefix(gotAgent, UserAgentName+"/") {
		t.Errorf("User-Agent = %q, want prefix %q", gotAgent, UserAgentName+"/")
	}
}

func TestFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL+"/missing", FetchOptions{}); err == nil {
		t.Error("expected error for 404")
	}
	if _, err := Fetch(context.Background(), srv.URL+"/big", FetchOptions{MaxBytes: 100}); err == nil {
		t.Error("expected error when body exceeds MaxBytes")
	}
}
