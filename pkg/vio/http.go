// ABOUTME: HTTP stream provider for remote soundfonts
// ABOUTME: Downloads resources into a hashed temp cache and serves them as files
package vio

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// HTTPProvider fetches resources relative to a base URL. Downloads are cached
// on disk so repeated opens (one per private synth) hit the network once.
type HTTPProvider struct {
	baseURL  string
	cacheDir string
	client   *http.Client
}

// NewHTTPProvider creates a provider rooted at baseURL. An empty cacheDir
// selects a directory under os.TempDir.
func NewHTTPProvider(baseURL, cacheDir string) (*HTTPProvider, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "sendspin-midi-cache")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &HTTPProvider{
		baseURL:  baseURL,
		cacheDir: cacheDir,
		client:   &http.Client{},
	}, nil
}

// Open downloads name if it is not cached and opens the cached copy
func (p *HTTPProvider) Open(name string) (Stream, error) {
	target, err := p.resolve(name)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256([]byte(target))
	cachePath := filepath.Join(p.cacheDir, fmt.Sprintf("%x", hash[:8]))

	if _, err := os.Stat(cachePath); err == nil {
		log.Printf("Resource cache hit: %s", cachePath)
		return openFile(cachePath)
	}

	if err := p.download(target, cachePath); err != nil {
		return nil, err
	}
	return openFile(cachePath)
}

func openFile(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Cleanup removes the download cache
func (p *HTTPProvider) Cleanup() error {
	return os.RemoveAll(p.cacheDir)
}

func (p *HTTPProvider) resolve(name string) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, name)
	return u.String(), nil
}

func (p *HTTPProvider) download(target, cachePath string) error {
	log.Printf("Downloading resource: %s", target)
	resp, err := p.client.Get(target)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s failed: HTTP %d", target, resp.StatusCode)
	}

	// Write to a temp file first so a failed transfer never looks cached
	tmp, err := os.CreateTemp(p.cacheDir, "partial-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save %s: %w", target, err)
	}

	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to save %s: %w", target, err)
	}

	log.Printf("Resource saved: %s", cachePath)
	return nil
}
