// ABOUTME: Tests for stream providers
// ABOUTME: Tests memory, file system, and alias providers
package vio

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMemoryProvider(t *testing.T) {
	m := Memory{"a": []byte("hello")}

	s, err := m.Open("a")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	data, _ := io.ReadAll(s)
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}

	if _, err := m.Open("b"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFSProviderDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "gm.sf2"), []byte("sf2data"), 0644); err != nil {
		t.Fatal(err)
	}

	p := FS(os.DirFS(dir))
	s, err := p.Open("gm.sf2")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if pos, err := s.Seek(3, io.SeekStart); err != nil || pos != 3 {
		t.Errorf("expected seek to 3, got %d (%v)", pos, err)
	}
	rest, _ := io.ReadAll(s)
	if string(rest) != "data" {
		t.Errorf("expected %q, got %q", "data", rest)
	}
}

// readOnlyFS returns files that do not implement io.Seeker
type readOnlyFS struct {
	fstest.MapFS
}

type readOnlyFile struct {
	fs.File
}

func (r readOnlyFS) Open(name string) (fs.File, error) {
	f, err := r.MapFS.Open(name)
	if err != nil {
		return nil, err
	}
	return readOnlyFile{f}, nil
}

func TestFSProviderBuffersUnseekableFiles(t *testing.T) {
	fsys := readOnlyFS{fstest.MapFS{
		"sf.sf2": &fstest.MapFile{Data: []byte("0123456789")},
	}}

	s, err := FS(fsys).Open("sf.sf2")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	if pos, err := s.Seek(-2, io.SeekEnd); err != nil || pos != 8 {
		t.Errorf("expected buffered stream to seek to 8, got %d (%v)", pos, err)
	}
}

func TestFSProviderMissing(t *testing.T) {
	_, err := FS(fstest.MapFS{}).Open("nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRename(t *testing.T) {
	p := Rename(Memory{"FluidR3_GM.sf2": []byte("gm"), "other": []byte("o")}, "easyrpg.soundfont", "FluidR3_GM.sf2")

	s, err := p.Open("easyrpg.soundfont")
	if err != nil {
		t.Fatalf("open logical name failed: %v", err)
	}
	data, _ := io.ReadAll(s)
	if string(data) != "gm" {
		t.Errorf("expected aliased data, got %q", data)
	}

	if _, err := p.Open("other"); err != nil {
		t.Errorf("expected pass-through name to open, got %v", err)
	}
}
