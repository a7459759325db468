// Package imagecache downloads remote images once and keeps them on disk so
// repeated palette runs over the same URL do not refetch it.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	httputil "github.com/jmylchreest/swatch/internal/util/http"
)

// CacheOptions configures image caching behavior.
type CacheOptions struct {
	// CacheDir is the directory where images will be cached.
	// If empty, defaults to DefaultCacheDir.
	CacheDir string

	// AllowOverwrite refetches the image even when a cached copy exists.
	AllowOverwrite bool

	// Fetch overrides the HTTP options used for the download.
	Fetch httputil.FetchOptions
}

// Cache stores downloaded images on an afero filesystem.
type Cache struct {
	fs   afero.Fs
	opts CacheOptions
}

// New creates a Cache on fs.
func New(fs afero.Fs, opts CacheOptions) *Cache {
	return &Cache{fs: fs, opts: opts}
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "swatch", "images"), nil
	}
	return filepath.Join(cacheDir, "swatch", "images"), nil
}

// Filename returns the deterministic cache filename for url: the first 16
// bytes of its SHA-256 in hex plus the URL's extension, or ".img" when it
// has none.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 || strings.ContainsRune(ext, '/') {
		ext = ".img"
	}

	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

// Path returns where url is (or would be) cached.
func (c *Cache) Path(url string) (string, error) {
	dir := c.opts.CacheDir
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, Filename(url)), nil
}

// Get returns the bytes of the image at url, downloading them on first use.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	cachedPath, err := c.Path(url)
	if err != nil {
		return nil, err
	}

	if !c.opts.AllowOverwrite {
		if data, err := afero.ReadFile(c.fs, cachedPath); err == nil {
			return data, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, c.opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}

	if err := c.fs.MkdirAll(filepath.Dir(cachedPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := afero.WriteFile(c.fs, cachedPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write cached image: %w", err)
	}

	return data, nil
}
