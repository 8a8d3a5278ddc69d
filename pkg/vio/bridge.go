// ABOUTME: Engine file-callback bridge onto a stream provider
// ABOUTME: Implements open/read/seek/tell/close with stdio end-of-data semantics
package vio

import (
	"errors"
	"fmt"
	"io"
	"log"
)

var (
	// ErrStreamAccess reports that a resource could not be opened or read
	ErrStreamAccess = errors.New("stream access failed")

	// ErrClosed reports use of a handle after Close
	ErrClosed = errors.New("stream handle closed")
)

// Handle is an open stream owned by the bridge for the duration of one load
type Handle struct {
	name   string
	stream Stream
	eof    bool
	closed bool
}

// Name returns the resource name the handle was opened with
func (h *Handle) Name() string { return h.name }

// EOF reports whether the handle is flagged at end of data
func (h *Handle) EOF() bool { return h.eof }

// Bridge maps the engine's file callbacks onto a Provider
type Bridge struct {
	provider Provider
}

// NewBridge creates a bridge over p
func NewBridge(p Provider) *Bridge {
	return &Bridge{provider: p}
}

// Open opens the named resource. A nil handle means the engine should report
// a load failure.
func (b *Bridge) Open(name string) (*Handle, error) {
	if b.provider == nil {
		return nil, fmt.Errorf("open %s: no provider: %w", name, ErrStreamAccess)
	}

	s, err := b.provider.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", name, ErrStreamAccess, err)
	}

	return &Handle{name: name, stream: s}, nil
}

// Read fills p from the stream and returns the number of bytes read. A short
// read flags the handle at end of data; while flagged Read returns 0.
func (b *Bridge) Read(h *Handle, p []byte) int {
	if h == nil || h.closed || h.eof {
		return 0
	}

	n, err := io.ReadFull(h.stream, p)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			log.Printf("vio: read %s failed: %v", h.name, err)
		}
		h.eof = true
	}
	return n
}

// Seek clears the end-of-data flag, repositions the stream and returns the
// new absolute position, or -1 on failure.
func (b *Bridge) Seek(h *Handle, offset int64, whence int) int64 {
	if h == nil || h.closed {
		return -1
	}

	h.eof = false

	pos, err := h.stream.Seek(offset, whence)
	if err != nil {
		log.Printf("vio: seek %s to %d (whence %d) failed: %v", h.name, offset, whence, err)
		return -1
	}
	return pos
}

// Tell returns the current absolute position, or -1 on failure
func (b *Bridge) Tell(h *Handle) int64 {
	if h == nil || h.closed {
		return -1
	}

	pos, err := h.stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

// Close releases the handle. Only the first Close reaches the stream.
func (b *Bridge) Close(h *Handle) error {
	if h == nil {
		return nil
	}
	if h.closed {
		return ErrClosed
	}

	h.closed = true
	return h.stream.Close()
}

// Load opens name, passes a seekable view of it to fn and closes the handle
// on every exit path.
func (b *Bridge) Load(name string, fn func(io.ReadSeeker) error) (err error) {
	h, err := b.Open(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(h); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	return fn(&handleReader{bridge: b, handle: h})
}

// handleReader presents a Handle through io.ReadSeeker
type handleReader struct {
	bridge *Bridge
	handle *Handle
}

func (r *handleReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.handle.closed {
		return 0, ErrClosed
	}

	n := r.bridge.Read(r.handle, p)
	if n == 0 && r.handle.eof {
		return 0, io.EOF
	}
	return n, nil
}

func (r *handleReader) Seek(offset int64, whence int) (int64, error) {
	pos := r.bridge.Seek(r.handle, offset, whence)
	if pos < 0 {
		return 0, fmt.Errorf("seek %s: %w", r.handle.name, ErrStreamAccess)
	}
	return pos, nil
}
