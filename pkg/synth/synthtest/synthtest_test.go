// ABOUTME: Tests for the recording engine
// ABOUTME: Tests call recording, soundfont capture and error injection
package synthtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Sendspin/sendspin-midi/pkg/synth"
)

func TestRecordsCalls(t *testing.T) {
	e := NewEngine()
	s, err := e.NewSynth(synth.DefaultSettings(44100))
	if err != nil {
		t.Fatalf("NewSynth failed: %v", err)
	}

	s.NoteOn(0, 60, 100)
	s.PitchBend(1, 8192)
	s.SystemReset()

	calls := e.Synths()[0].Calls()
	want := []string{"noteon", "pitch_bend", "system_reset"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i, op := range want {
		if calls[i].Op != op {
			t.Errorf("call %d: expected %s, got %s", i, op, calls[i].Op)
		}
	}
}

func TestLoadCapturesSoundfont(t *testing.T) {
	e := NewEngine()
	s, _ := e.NewSynth(synth.DefaultSettings(44100))

	if err := s.LoadSoundfont(bytes.NewReader([]byte("sf2"))); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	rec := e.Synths()[0]
	if string(rec.Soundfont()) != "sf2" {
		t.Errorf("expected soundfont 'sf2', got %q", rec.Soundfont())
	}
	if e.Loads() != 1 {
		t.Errorf("expected 1 load, got %d", e.Loads())
	}
}

func TestInjectedErrors(t *testing.T) {
	boom := errors.New("boom")
	e := NewEngine()
	s, _ := e.NewSynth(synth.DefaultSettings(44100))

	e.LoadErr = boom
	if err := s.LoadSoundfont(bytes.NewReader(nil)); !errors.Is(err, boom) {
		t.Errorf("expected load error, got %v", err)
	}

	e.WriteErr = boom
	if err := s.WriteS16(make([]byte, 8), 2); !errors.Is(err, boom) {
		t.Errorf("expected write error, got %v", err)
	}

	e.CreateErr = boom
	if _, err := e.NewSynth(synth.DefaultSettings(44100)); !errors.Is(err, boom) {
		t.Errorf("expected create error, got %v", err)
	}
}

func TestWriteS16(t *testing.T) {
	e := NewEngine()
	s, _ := e.NewSynth(synth.DefaultSettings(44100))

	buf := make([]byte, 12)
	if err := s.WriteS16(buf, 2); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	for i, b := range buf {
		want := byte(0x7F)
		if i >= 8 {
			want = 0
		}
		if b != want {
			t.Errorf("byte %d: expected %#x, got %#x", i, want, b)
		}
	}

	if err := s.WriteS16(make([]byte, 4), 2); !errors.Is(err, synth.ErrWrite) {
		t.Errorf("expected ErrWrite for short buffer, got %v", err)
	}
}
