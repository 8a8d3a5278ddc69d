// ABOUTME: Standard MIDI File loading
// ABOUTME: Converts SMF channel events into packed words positioned in sample frames
package sequencer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sendspin/sendspin-midi/pkg/midisynth"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Event is a packed MIDI word due at an absolute frame
type Event struct {
	Frame int64
	Msg   uint32
}

// Song is a sequence of events ready for sample-count playback
type Song struct {
	Name   string
	Events []Event
	// Frames is the position of the last event
	Frames int64
}

// NewSong builds a song from events, sorting them by frame
func NewSong(name string, events []Event) *Song {
	sorted := append([]Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frame < sorted[j].Frame
	})

	var end int64
	if len(sorted) > 0 {
		end = sorted[len(sorted)-1].Frame
	}

	return &Song{Name: name, Events: sorted, Frames: end}
}

// LoadFile reads a Standard MIDI File from disk
func LoadFile(path string, sampleRate int) (*Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(name, bytes.NewReader(data), sampleRate)
}

// Load parses a Standard MIDI File and positions every channel event at
// sampleRate frames per second. Meta and system exclusive events are dropped.
func Load(name string, r io.Reader, sampleRate int) (*Song, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	var events []Event
	tr := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		msg, ok := packChannelMessage([]byte(te.Message))
		if !ok {
			return
		}
		events = append(events, Event{
			Frame: te.AbsMicroSeconds * int64(sampleRate) / 1_000_000,
			Msg:   msg,
		})
	})
	if err := tr.Error(); err != nil {
		return nil, fmt.Errorf("failed to parse MIDI file %s: %w", name, err)
	}

	return NewSong(name, events), nil
}

// packChannelMessage packs a raw channel voice message
func packChannelMessage(b []byte) (uint32, bool) {
	if len(b) < 2 || b[0] < 0x80 || b[0] >= 0xF0 {
		return 0, false
	}

	var data2 byte
	if len(b) > 2 {
		data2 = b[2]
	}
	return midisynth.Pack(b[0], b[1], data2), true
}
