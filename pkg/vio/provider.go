// ABOUTME: Stream provider abstraction and simple implementations
// ABOUTME: Defines Provider/Stream and the FS, memory and alias providers
package vio

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
)

// Stream is an open, seekable byte stream
type Stream interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Provider opens named resources
type Provider interface {
	Open(name string) (Stream, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(name string) (Stream, error)

// Open calls f(name)
func (f ProviderFunc) Open(name string) (Stream, error) {
	return f(name)
}

// memStream is a bytes.Reader with a no-op Close
type memStream struct {
	*bytes.Reader
}

func (memStream) Close() error { return nil }

// NewMemStream wraps data in a Stream
func NewMemStream(data []byte) Stream {
	return memStream{bytes.NewReader(data)}
}

// Memory serves resources from an in-memory map
type Memory map[string][]byte

// Open returns a stream over the named entry
func (m Memory) Open(name string) (Stream, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", name, fs.ErrNotExist)
	}
	return NewMemStream(data), nil
}

type fsProvider struct {
	fsys fs.FS
}

// FS serves resources from a file system. Files that cannot seek are read
// fully into memory on open.
func FS(fsys fs.FS) Provider {
	return &fsProvider{fsys: fsys}
}

func (p *fsProvider) Open(name string) (Stream, error) {
	f, err := p.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	if s, ok := f.(Stream); ok {
		return s, nil
	}

	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to buffer %s: %w", name, err)
	}
	return NewMemStream(data), nil
}

type renamed struct {
	provider Provider
	logical  string
	actual   string
}

// Rename maps one logical resource name onto an actual name understood by p.
// Other names pass through unchanged.
func Rename(p Provider, logical, actual string) Provider {
	return &renamed{provider: p, logical: logical, actual: actual}
}

func (r *renamed) Open(name string) (Stream, error) {
	if name == r.logical {
		name = r.actual
	}
	return r.provider.Open(name)
}
