// ABOUTME: Tests for the HTTP stream provider
// ABOUTME: Tests download, caching, and error handling
package vio

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProviderDownload(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/fonts/gm.sf2" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("fake soundfont"))
	}))
	defer server.Close()

	p, err := NewHTTPProvider(server.URL+"/fonts", t.TempDir())
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	for i := 0; i < 2; i++ {
		s, err := p.Open("gm.sf2")
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		data, _ := io.ReadAll(s)
		s.Close()
		if string(data) != "fake soundfont" {
			t.Errorf("open %d: unexpected data %q", i, data)
		}
	}

	if requests != 1 {
		t.Errorf("expected second open to hit the cache, got %d requests", requests)
	}
}

func TestHTTPProviderNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := NewHTTPProvider(server.URL, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if _, err := p.Open("missing.sf2"); err == nil {
		t.Fatal("expected error for 404")
	}

	// Failed downloads must not be served from cache later
	if _, err := p.Open("missing.sf2"); err == nil {
		t.Fatal("expected error for second 404")
	}
}

func TestHTTPProviderThroughBridge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	p, err := NewHTTPProvider(server.URL, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	b := NewBridge(p)

	h, err := b.Open("sf")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer b.Close(h)

	b.Read(h, make([]byte, 64))
	if pos := b.Seek(h, 0, io.SeekStart); pos != 0 {
		t.Errorf("expected rewind to 0, got %d", pos)
	}
	if n := b.Read(h, make([]byte, 5)); n != 5 {
		t.Errorf("expected 5 bytes after rewind, got %d", n)
	}
}
