// Package image provides utilities for loading and preparing images for analysis.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ulikunitz/xz"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/pixelpalette/internal/security"
	httputil "github.com/jmylchreest/pixelpalette/internal/util/http"
	"github.com/jmylchreest/pixelpalette/internal/util/imagecache"
)

// MaxDecompressedSize bounds the size of an xz-compressed image once inflated.
const MaxDecompressedSize = 100 * 1024 * 1024

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TIFF, and any of them
// compressed with xz (".xz" suffix).
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if isXz(path) {
		xzr, err := xz.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = security.NewLimitedReader(xzr, MaxDecompressedSize)
	}

	return decode(r)
}

// decode decodes an image from r with any registered format.
func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// ValidateImagePath checks that path is an HTTP(S) URL or an existing,
// non-directory file with a supported extension.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	if isURL(path) {
		// Fetched later; avoid double-fetching.
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !IsImageFile(path) {
		return fmt.Errorf("unsupported image extension: %s (supported: %s)",
			filepath.Ext(path), strings.Join(SupportedImageExtensions(), ", "))
	}

	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}
}

// IsImageFile checks if a file has a supported image extension, looking
// through a trailing ".xz".
func IsImageFile(path string) bool {
	if isXz(path) {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

func isXz(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xz")
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader  *FileLoader
	fetch       httputil.FetchOptions
	validateURL func(string) error
	cache       *imagecache.Cache
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		fileLoader:  NewFileLoader(),
		validateURL: security.ValidateHTTPURL,
	}
}

// WithCache keeps downloaded images in dir and reuses them on later loads.
func (l *SmartLoader) WithCache(dir string) *SmartLoader {
	l.cache = imagecache.New(dir, func(ctx context.Context, url string) ([]byte, error) {
		return httputil.Fetch(ctx, url, l.fetch)
	})
	return l
}

// Cache returns the download cache, or nil when caching is off.
func (l *SmartLoader) Cache() *imagecache.Cache {
	return l.cache
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if isURL(path) {
		return l.loadFromURL(ctx, path)
	}
	return l.fileLoader.Load(ctx, path)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := l.validateURL(url); err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}

	var data []byte
	var err error
	if l.cache != nil {
		data, err = l.cache.Get(ctx, url)
		if err != nil && data == nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
	} else {
		data, err = httputil.Fetch(ctx, url, l.fetch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
	}

	return decode(bytes.NewReader(data))
}
