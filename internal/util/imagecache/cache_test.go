package imagecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func countingFetch(calls *int, body string) FetchFunc {
	return func(context.Context, string) ([]byte, error) {
		*calls++
		return []byte(body), nil
	}
}

func TestGetCachesDownloads(t *testing.T) {
	var calls int
	cache := New(filepath.Join(t.TempDir(), "images"), countingFetch(&calls, "png-bytes"))

	for range 3 {
		data, err := cache.Get(context.Background(), "https://example.com/a.png")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("Get() = %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("fetched %d times, want 1", calls)
	}
	if _, err := os.Stat(cache.Path("https://example.com/a.png")); err != nil {
		t.Errorf("cached file missing: %v", err)
	}
}

func TestGetFetchError(t *testing.T) {
	cache := New(t.TempDir(), func(context.Context, string) ([]byte, error) {
		return nil, errors.New("404")
	})
	if _, err := cache.Get(context.Background(), "https://example.com/missing.png"); err == nil {
		t.Fatal("Get() expected error")
	}
}

func TestGetReturnsDataWhenStoreFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	var calls int
	cache := New(filepath.Join(blocker, "images"), countingFetch(&calls, "data"))
	data, err := cache.Get(context.Background(), "https://example.com/x.jpg")
	if err == nil {
		t.Fatal("Get() expected a store error")
	}
	if string(data) != "data" {
		t.Errorf("Get() data = %q, want the download", data)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/photo.JPG", ".jpg"},
		{"https://example.com/photo.webp?size=large", ".webp"},
		{"https://example.com/photo", ".img"},
		{"https://example.com/v1.2/render", ".img"},
	}
	for _, tt := range tests {
		got := filename(tt.url)
		if !strings.HasSuffix(got, tt.wantExt) {
			t.Errorf("filename(%q) = %q, want suffix %q", tt.url, got, tt.wantExt)
		}
		if len(got) != 32+len(tt.wantExt) {
			t.Errorf("filename(%q) = %q, want 32 hex chars", tt.url, got)
		}
	}

	if filename("https://a/x.png") == filename("https://b/x.png") {
		t.Error("different URLs share a cache file")
	}
}

func TestClear(t *testing.T) {
	var calls int
	cache := New(filepath.Join(t.TempDir(), "images"), countingFetch(&calls, "x"))
	if _, err := cache.Get(context.Background(), "https://example.com/a.png"); err != nil {
		t.Fatal(err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(cache.Dir()); !os.IsNotExist(err) {
		t.Errorf("cache dir still exists: %v", err)
	}
}
