// ABOUTME: Tests for the engine file-callback bridge
// ABOUTME: Tests short reads, end-of-data flag clearing, and exactly-once close
package vio

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"
)

// countingStream records how many times Close reaches the stream
type countingStream struct {
	*bytes.Reader
	closes int
}

func (s *countingStream) Close() error {
	s.closes++
	return nil
}

func countingProvider(data []byte) (Provider, *countingStream) {
	s := &countingStream{Reader: bytes.NewReader(data)}
	return ProviderFunc(func(name string) (Stream, error) {
		return s, nil
	}), s
}

func TestBridgeOpenMissing(t *testing.T) {
	b := NewBridge(Memory{})

	h, err := b.Open("missing.sf2")
	if err == nil {
		t.Fatal("expected error opening missing resource")
	}
	if h != nil {
		t.Error("expected nil handle on failure")
	}
	if !errors.Is(err, ErrStreamAccess) {
		t.Errorf("expected ErrStreamAccess, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected underlying fs.ErrNotExist, got %v", err)
	}
}

func TestBridgeOpenNoProvider(t *testing.T) {
	b := NewBridge(nil)

	if _, err := b.Open("x"); !errors.Is(err, ErrStreamAccess) {
		t.Errorf("expected ErrStreamAccess, got %v", err)
	}
}

func TestBridgeShortRead(t *testing.T) {
	b := NewBridge(Memory{"sf": []byte("0123456789")})

	h, err := b.Open("sf")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer b.Close(h)

	buf := make([]byte, 16)
	if n := b.Read(h, buf); n != 10 {
		t.Fatalf("expected short read of 10 bytes, got %d", n)
	}
	if !h.EOF() {
		t.Error("expected handle to be flagged at end of data")
	}
	if n := b.Read(h, buf); n != 0 {
		t.Errorf("expected 0 bytes while flagged, got %d", n)
	}
}

func TestBridgeSeekClearsEOF(t *testing.T) {
	b := NewBridge(Memory{"sf": []byte("0123456789")})

	h, err := b.Open("sf")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer b.Close(h)

	// Exhaust the stream
	b.Read(h, make([]byte, 32))
	if !h.EOF() {
		t.Fatal("expected end of data")
	}

	if pos := b.Seek(h, 0, io.SeekEnd); pos != 10 {
		t.Errorf("expected seek to end at 10, got %d", pos)
	}

	if pos := b.Seek(h, 0, io.SeekStart); pos != 0 {
		t.Fatalf("expected seek to 0, got %d", pos)
	}
	if h.EOF() {
		t.Error("expected seek to clear end-of-data flag")
	}
	if pos := b.Tell(h); pos != 0 {
		t.Errorf("expected tell 0, got %d", pos)
	}

	buf := make([]byte, 4)
	if n := b.Read(h, buf); n != 4 {
		t.Fatalf("expected 4 bytes after rewind, got %d", n)
	}
	if string(buf) != "0123" {
		t.Errorf("expected %q, got %q", "0123", buf)
	}
	if pos := b.Tell(h); pos != 4 {
		t.Errorf("expected tell 4, got %d", pos)
	}
}

func TestBridgeSeekRelative(t *testing.T) {
	b := NewBridge(Memory{"sf": []byte("0123456789")})

	h, _ := b.Open("sf")
	defer b.Close(h)

	b.Seek(h, 2, io.SeekStart)
	if pos := b.Seek(h, 3, io.SeekCurrent); pos != 5 {
		t.Errorf("expected position 5, got %d", pos)
	}
	if pos := b.Seek(h, -1, io.SeekStart); pos != -1 {
		t.Errorf("expected -1 for invalid seek, got %d", pos)
	}
}

func TestBridgeCloseExactlyOnce(t *testing.T) {
	p, s := countingProvider([]byte("data"))
	b := NewBridge(p)

	h, err := b.Open("sf")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if err := b.Close(h); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := b.Close(h); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on second close, got %v", err)
	}
	if s.closes != 1 {
		t.Errorf("expected stream closed once, got %d", s.closes)
	}

	if n := b.Read(h, make([]byte, 4)); n != 0 {
		t.Errorf("expected read on closed handle to return 0, got %d", n)
	}
	if pos := b.Tell(h); pos != -1 {
		t.Errorf("expected tell on closed handle to return -1, got %d", pos)
	}
}

func TestBridgeLoad(t *testing.T) {
	p, s := countingProvider([]byte("soundfont bytes"))
	b := NewBridge(p)

	var got []byte
	err := b.Load("sf", func(r io.ReadSeeker) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != "soundfont bytes" {
		t.Errorf("unexpected data %q", got)
	}
	if s.closes != 1 {
		t.Errorf("expected stream closed once, got %d", s.closes)
	}
}

func TestBridgeLoadClosesOnError(t *testing.T) {
	p, s := countingProvider([]byte("riff"))
	b := NewBridge(p)

	parseErr := errors.New("bad soundfont")
	err := b.Load("sf", func(r io.ReadSeeker) error {
		return parseErr
	})
	if !errors.Is(err, parseErr) {
		t.Errorf("expected parse error, got %v", err)
	}
	if s.closes != 1 {
		t.Errorf("expected stream closed on error path, got %d closes", s.closes)
	}
}

func TestBridgeLoadRewindAfterEOF(t *testing.T) {
	b := NewBridge(Memory{"sf": []byte("abcdef")})

	err := b.Load("sf", func(r io.ReadSeeker) error {
		if _, err := io.ReadAll(r); err != nil {
			return err
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return err
		}
		buf := make([]byte, 3)
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		if string(buf) != "abc" {
			t.Errorf("expected %q after rewind, got %q", "abc", buf)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
}
