package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://example.com/wall.PNG", ".png"},
		{"https://example.com/wall.jpg?size=large", ".jpg"},
		{"https://example.com/image", ".img"},
		{"https://example.com/archive.tar.gzipped", ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Filename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename(%q) = %s, want suffix %s", tt.url, got, tt.wantExt)
			}
			if len(got) != 32+len(tt.wantExt) {
				t.Errorf("Filename(%q) = %s, unexpected length", tt.url, got)
			}
			if Filename(tt.url) != got {
				t.Error("Filename should be deterministic")
			}
		})
	}
}

func TestCacheGet(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	cache := New(fs, CacheOptions{CacheDir: "/cache"})
	url := srv.URL + "/wall.png"

	for i := range 3 {
		data, err := cache.Get(context.Background(), url)
		if err != nil {
			t.Fatalf("Get() #%d error: %v", i, err)
		}
		if string(data) != "image-bytes" {
			t.Errorf("Get() = %q", data)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	exists, err := afero.Exists(fs, filepath.Join("/cache", Filename(url)))
	if err != nil || !exists {
		t.Errorf("cached file missing: %v", err)
	}

	refresh := New(fs, CacheOptions{CacheDir: "/cache", AllowOverwrite: true})
	if _, err := refresh.Get(context.Background(), url); err != nil {
		t.Fatalf("Get() with overwrite error: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("overwrite should refetch, hits = %d", hits.Load())
	}
}

func TestCacheGetRejectsNonHTTP(t *testing.T) {
	cache := New(afero.NewMemMapFs(), CacheOptions{CacheDir: "/cache"})
	if _, err := cache.Get(context.Background(), "/local/file.png"); err == nil {
		t.Error("expected error for non-HTTP URL")
	}
}
