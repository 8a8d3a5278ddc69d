// ABOUTME: Realtime playback through the audio device
// ABOUTME: Runs one decoder per song plus an optional live input, with TUI status
package main

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/Sendspin/sendspin-midi/internal/live"
	"github.com/Sendspin/sendspin-midi/internal/sequencer"
	"github.com/Sendspin/sendspin-midi/internal/ui"
	"github.com/Sendspin/sendspin-midi/pkg/audio"
	"github.com/Sendspin/sendspin-midi/pkg/audio/output"
	"github.com/Sendspin/sendspin-midi/pkg/midisynth"
	tea "github.com/charmbracelet/bubbletea"
)

type playbackConfig struct {
	Files     []string
	Options   sequencer.Options
	Listen    bool
	Port      int
	UseTUI    bool
	Soundfont string
}

// track is one decoder with the player driving it
type track struct {
	name    string
	decoder *midisynth.Decoder
	player  *sequencer.Player
	stream  output.Stream
}

func (t *track) status() ui.TrackStatus {
	return ui.TrackStatus{
		Name:     t.name,
		Binding:  t.decoder.Binding().String(),
		Position: t.player.Position(),
		Duration: t.player.Duration(),
		Loops:    t.player.Loops(),
		Done:     t.player.Done(),
	}
}

func (t *track) close() {
	// Stop the player first so oto's goroutine cannot reach the decoder
	// once it is destroyed
	t.player.Close()
	if t.stream != nil {
		if err := t.stream.Close(); err != nil {
			log.Printf("Failed to close stream for %s: %v", t.name, err)
		}
	}
	if err := t.decoder.Close(); err != nil {
		log.Printf("Failed to close decoder for %s: %v", t.name, err)
	}
}

func runPlayback(ctx context.Context, sc *midisynth.Context, cfg playbackConfig) error {
	settings := sc.Settings()
	cfg.Options.SampleRate = settings.SampleRate

	out := output.NewOto()
	if err := out.Open(audio.StereoInt16(settings.SampleRate)); err != nil {
		return err
	}
	defer out.Close()

	var tracks []*track
	defer func() {
		for _, t := range tracks {
			t.close()
		}
	}()

	for _, file := range cfg.Files {
		song, err := sequencer.LoadFile(file, settings.SampleRate)
		if err != nil {
			return err
		}
		t, err := startTrack(sc, out, song, cfg.Options)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)
	}

	var input *live.Input
	portName := ""
	if cfg.Listen {
		opts := cfg.Options
		opts.Hold = true
		t, err := startTrack(sc, out, sequencer.NewSong("live", nil), opts)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)

		input, err = live.Open(cfg.Port, t.player)
		if err != nil {
			return err
		}
		defer input.Close()
		portName = input.Name()
	}

	var tuiProg *tea.Program
	var volumeCtrl *ui.VolumeControl
	if cfg.UseTUI {
		volumeCtrl = ui.NewVolumeControl()
		var err error
		tuiProg, err = ui.Run(volumeCtrl)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()
		defer tuiProg.Quit()

		listening := cfg.Listen
		tuiProg.Send(ui.StatusMsg{
			Engine:     sc.Config().Engine.Name(),
			Soundfont:  cfg.Soundfont,
			SampleRate: settings.SampleRate,
			Polyphony:  settings.Polyphony,
			Listening:  &listening,
			PortName:   portName,
		})
	}

	return waitPlayback(ctx, out, tracks, volumeCtrl, tuiProg)
}

func startTrack(sc *midisynth.Context, out *output.Oto, song *sequencer.Song, opts sequencer.Options) (*track, error) {
	dec := sc.NewDecoder()
	t := &track{
		name:    song.Name,
		decoder: dec,
		player:  sequencer.NewPlayer(song, dec, opts),
	}
	if dec.Inert() {
		t.close()
		return nil, fmt.Errorf("no synth available for %s", song.Name)
	}

	stream, err := out.Attach(t.player)
	if err != nil {
		t.close()
		return nil, err
	}
	t.stream = stream

	log.Printf("Playing %s on %s synth (%s)", song.Name, dec.Binding(), t.player.Duration())
	return t, nil
}

// waitPlayback blocks until every finite track is done, the user quits or
// the context is cancelled
func waitPlayback(ctx context.Context, out *output.Oto, tracks []*track, volumeCtrl *ui.VolumeControl, tuiProg *tea.Program) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var changes <-chan ui.VolumeChangeMsg
	var resets <-chan ui.ResetMsg
	var quit <-chan ui.QuitMsg
	if volumeCtrl != nil {
		changes = volumeCtrl.Changes
		resets = volumeCtrl.Resets
		quit = volumeCtrl.Quit
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("Shutdown signal received")
			return nil
		case <-quit:
			log.Printf("Received quit signal from TUI")
			return nil
		case vol := <-changes:
			out.SetVolume(vol.Volume)
			out.SetMuted(vol.Muted)
		case <-resets:
			log.Printf("Resetting playback")
			for _, t := range tracks {
				t.player.Reset()
			}
		case <-ticker.C:
			if tuiProg != nil {
				tuiProg.Send(statusSnapshot(tracks))
			}
			if allDone(tracks) {
				log.Printf("Playback finished")
				return nil
			}
		}
	}
}

func statusSnapshot(tracks []*track) ui.StatusMsg {
	statuses := make([]ui.TrackStatus, 0, len(tracks))
	active := 0
	for _, t := range tracks {
		statuses = append(statuses, t.status())
		if !t.decoder.Inert() {
			active++
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ui.StatusMsg{
		Tracks:     statuses,
		Live:       &active,
		Goroutines: runtime.NumGoroutine(),
		MemAlloc:   m.Alloc,
	}
}

func allDone(tracks []*track) bool {
	for _, t := range tracks {
		if !t.player.Done() {
			return false
		}
	}
	return true
}
