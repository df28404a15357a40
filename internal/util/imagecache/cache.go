// Package imagecache keeps downloaded remote images on disk, keyed by URL.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FetchFunc downloads the content behind a URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Cache stores fetched images in a directory.
type Cache struct {
	dir   string
	fetch FetchFunc
}

// New creates a Cache in dir that downloads misses with fetch.
func New(dir string, fetch FetchFunc) *Cache {
	return &Cache{dir: dir, fetch: fetch}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file a URL is cached in.
func (c *Cache) Path(url string) string {
	return filepath.Join(c.dir, filename(url))
}

// filename derives a deterministic name from the URL hash and its extension.
func filename(url string) string {
	hash := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", hash[:16])

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 || strings.Contains(ext, "/") {
		ext = ".img"
	}

	return name + strings.ToLower(ext)
}

// Get returns the cached content for url, downloading and storing it on a
// miss. A failure to store a download is reported after the content is
// returned, so callers can still use it.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	path := c.Path(url)
	if data, err := os.ReadFile(path); err == nil { // #nosec G304 - path derived from a hash inside the cache dir
		return data, nil
	}

	data, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return data, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return data, fmt.Errorf("failed to write cached image: %w", err)
	}

	return data, nil
}

// Clear removes every cached image.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("failed to clear image cache: %w", err)
	}
	return nil
}
