// ABOUTME: Sample-count sequencer driving a decoder
// ABOUTME: Interleaves event dispatch with buffer fills so events land on exact frames
package sequencer

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
)

// ErrFill reports that the target failed to render
var ErrFill = errors.New("decoder failed to fill buffer")

// Target is the decoder surface the player drives
type Target interface {
	OnMidiMessage(msg uint32)
	OnMidiReset()
	FillBuffer(buf []byte) int
}

// Options configures playback
type Options struct {
	// SampleRate converts frames to time
	SampleRate int
	// Loop restarts the song after the tail
	Loop bool
	// Tail keeps rendering after the last event so releases decay
	Tail time.Duration
	// Hold renders silence after the end instead of returning io.EOF,
	// leaving the target open for messages sent with Send
	Hold bool
}

// Player renders a song through a target. Timing is driven by the number
// of frames rendered, never by the wall clock. Read, Send and Reset are
// serialized so the target sees one caller at a time.
type Player struct {
	mu     sync.Mutex
	song   *Song
	target Target
	opts   Options
	end    int64
	pos    int64
	next   int
	loops  int
	closed bool
}

// NewPlayer creates a player positioned at the start of song
func NewPlayer(song *Song, target Target, opts Options) *Player {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	tail := int64(opts.Tail) * int64(opts.SampleRate) / int64(time.Second)

	return &Player{
		song:   song,
		target: target,
		opts:   opts,
		end:    song.Frames + tail,
	}
}

// Read renders frame-aligned PCM into p, dispatching due events between
// chunks. It returns io.EOF once the song and its tail are done.
func (p *Player) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, io.EOF
	}

	frames := int64(len(b) / audio.FrameBytes)
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}

	var written int64
	for written < frames {
		p.dispatchDueLocked()

		if p.pos >= p.end && !p.opts.Hold {
			if !p.opts.Loop || p.end == 0 {
				break
			}
			p.rewindLocked()
			p.loops++
			continue
		}

		chunk := frames - written
		if boundary, ok := p.nextBoundaryLocked(); ok && boundary-p.pos < chunk {
			chunk = boundary - p.pos
		}

		off := written * audio.FrameBytes
		buf := b[off : off+chunk*audio.FrameBytes]
		if p.target.FillBuffer(buf) != len(buf) {
			return int(off), ErrFill
		}

		p.pos += chunk
		written += chunk
	}

	n := int(written * audio.FrameBytes)
	if written == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Send forwards an out-of-band message, e.g. from a live controller
func (p *Player) Send(msg uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.target.OnMidiMessage(msg)
}

// Reset silences the target and restarts the song
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.rewindLocked()
}

// Close detaches the target. It waits for an in-flight Read or Send, and
// afterwards the target is never touched again, so it may be destroyed.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Position returns the playback position
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return framesToDuration(p.pos, p.opts.SampleRate)
}

// Duration returns the song length including the tail
func (p *Player) Duration() time.Duration {
	return framesToDuration(p.end, p.opts.SampleRate)
}

// Loops returns how many times the song restarted
func (p *Player) Loops() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops
}

// Done reports whether a non-looping song has finished
func (p *Player) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.opts.Loop && !p.opts.Hold && p.pos >= p.end
}

func (p *Player) rewindLocked() {
	p.target.OnMidiReset()
	p.pos = 0
	p.next = 0
}

func (p *Player) dispatchDueLocked() {
	events := p.song.Events
	for p.next < len(events) && events[p.next].Frame <= p.pos {
		p.target.OnMidiMessage(events[p.next].Msg)
		p.next++
	}
}

// nextBoundaryLocked returns the frame at which rendering must pause
func (p *Player) nextBoundaryLocked() (int64, bool) {
	if p.next < len(p.song.Events) {
		return p.song.Events[p.next].Frame, true
	}
	if p.opts.Hold {
		return 0, false
	}
	return p.end, true
}

func framesToDuration(frames int64, sampleRate int) time.Duration {
	return time.Duration(frames * int64(time.Second) / int64(sampleRate))
}
