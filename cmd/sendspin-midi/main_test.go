// ABOUTME: Tests for CLI provider setup and offline rendering
// ABOUTME: Renders real SMF bytes through the recording engine into WAV files
package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sendspin/sendspin-midi/internal/sequencer"
	"github.com/Sendspin/sendspin-midi/pkg/midisynth"
	"github.com/Sendspin/sendspin-midi/pkg/synth/synthtest"
	"github.com/Sendspin/sendspin-midi/pkg/vio"
	"github.com/go-audio/wav"
)

// one note held for half a second at 120 BPM
var oneNoteSMF = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 96,
	'M', 'T', 'r', 'k', 0, 0, 0, 19,
	0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20,
	0x00, 0x90, 0x3C, 0x64,
	0x60, 0x80, 0x3C, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
}

func writeSMF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, oneNoteSMF, 0644); err != nil {
		t.Fatalf("failed to write MIDI file: %v", err)
	}
	return path
}

func newRenderContext(t *testing.T) (*midisynth.Context, *synthtest.Engine) {
	t.Helper()

	engine := synthtest.NewEngine()
	sc := midisynth.NewContext(midisynth.Config{
		Engine:     engine,
		Provider:   vio.Memory{midisynth.DefaultSoundfontName: []byte("sf2")},
		SampleRate: 1000,
	})
	if err := sc.Initialize(); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return sc, engine
}

func TestRenderJobs(t *testing.T) {
	dir := t.TempDir()

	jobs, err := renderJobs([]string{"a/town.mid", "b/battle.midi"}, "", dir)
	if err != nil {
		t.Fatalf("renderJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Out != filepath.Join(dir, "town.wav") || jobs[1].Out != filepath.Join(dir, "battle.wav") {
		t.Errorf("unexpected outputs: %+v", jobs)
	}
}

func TestRenderJobsCollision(t *testing.T) {
	if _, err := renderJobs([]string{"a/town.mid", "b/town.mid"}, "", t.TempDir()); err == nil {
		t.Error("expected error for two inputs rendering to the same file")
	}
}

func TestRenderJobsSingleOut(t *testing.T) {
	jobs, err := renderJobs([]string{"town.mid"}, "out.wav", "")
	if err != nil || len(jobs) != 1 || jobs[0].Out != "out.wav" {
		t.Errorf("expected single job to out.wav, got %+v (%v)", jobs, err)
	}

	if _, err := renderJobs([]string{"a.mid", "b.mid"}, "out.wav", ""); err == nil {
		t.Error("expected error for -out with several files")
	}
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	sc, engine := newRenderContext(t)

	files := []string{writeSMF(t, dir, "one.mid"), writeSMF(t, dir, "two.mid"), writeSMF(t, dir, "three.mid")}
	jobs, err := renderJobs(files, "", filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("renderJobs failed: %v", err)
	}

	if err := renderAll(context.Background(), sc, jobs, sequencer.Options{Loop: true}); err != nil {
		t.Fatalf("renderAll failed: %v", err)
	}

	for _, job := range jobs {
		f, err := os.Open(job.Out)
		if err != nil {
			t.Fatalf("missing output %s: %v", job.Out, err)
		}
		buf, err := wav.NewDecoder(f).FullPCMBuffer()
		f.Close()
		if err != nil {
			t.Fatalf("%s: failed to decode: %v", job.Out, err)
		}

		// 500 stereo frames
		if len(buf.Data) != 500*2 {
			t.Errorf("%s: expected %d samples, got %d", job.Out, 500*2, len(buf.Data))
		}
		if len(buf.Data) > 0 && buf.Data[0] != 0x7F7F {
			t.Errorf("%s: expected rendered samples, got %#x", job.Out, buf.Data[0])
		}
	}

	if sc.LiveInstances() != 0 {
		t.Errorf("expected all decoders closed, %d live", sc.LiveInstances())
	}
	if n := len(engine.Synths()); n < 1 || n > len(jobs) {
		t.Errorf("expected between 1 and %d synths, got %d", len(jobs), n)
	}
	if err := sc.Close(); err != nil {
		t.Errorf("context close failed: %v", err)
	}
}

func TestRenderAllMissingInput(t *testing.T) {
	dir := t.TempDir()
	sc, _ := newRenderContext(t)

	jobs := []renderJob{{In: filepath.Join(dir, "missing.mid"), Out: filepath.Join(dir, "missing.wav")}}
	if err := renderAll(context.Background(), sc, jobs, sequencer.Options{}); err == nil {
		t.Error("expected error for missing input")
	}
	if sc.LiveInstances() != 0 {
		t.Errorf("expected no live decoders, got %d", sc.LiveInstances())
	}
}

func TestRenderAllCancelled(t *testing.T) {
	dir := t.TempDir()
	sc, _ := newRenderContext(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []renderJob{{In: writeSMF(t, dir, "one.mid"), Out: filepath.Join(dir, "one.wav")}}
	if err := renderAll(ctx, sc, jobs, sequencer.Options{}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestBuildProviderLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.sf2")
	if err := os.WriteFile(path, []byte("sf2 bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	p, name, cleanup, err := buildProvider(path, "")
	if err != nil {
		t.Fatalf("buildProvider failed: %v", err)
	}
	defer cleanup()

	if name != midisynth.DefaultSoundfontName {
		t.Errorf("expected logical name %s, got %s", midisynth.DefaultSoundfontName, name)
	}

	s, err := p.Open(name)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer s.Close()

	buf := make([]byte, 9)
	if _, err := s.Read(buf); err != nil || string(buf) != "sf2 bytes" {
		t.Errorf("expected soundfont contents, got %q (%v)", buf, err)
	}
}

func TestValidateSynthFlags(t *testing.T) {
	tests := []struct {
		name      string
		rate      int
		gain      float64
		polyphony int
		ok        bool
	}{
		{"defaults", 44100, 0.6, 256, true},
		{"zero gain", 44100, 0, 256, false},
		{"negative gain", 44100, -1, 256, false},
		{"zero polyphony", 44100, 0.6, 0, false},
		{"zero rate", 0, 0.6, 256, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSynthFlags(tt.rate, tt.gain, tt.polyphony)
			if (err == nil) != tt.ok {
				t.Errorf("expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
