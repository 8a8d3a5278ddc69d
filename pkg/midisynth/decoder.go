// ABOUTME: Per-playback decoder instances
// ABOUTME: Binds each decoder to the primary or a private synth and fills PCM buffers
package midisynth

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
	"github.com/Sendspin/sendspin-midi/pkg/synth"
	"github.com/google/uuid"
)

// FillFailed is returned by FillBuffer when no frames were produced
const FillFailed = -1

// Binding describes which synth a decoder drives
type Binding int

const (
	// BindingNone means the decoder is inert
	BindingNone Binding = iota
	// BindingPrimary means the decoder shares the context's primary synth
	BindingPrimary
	// BindingPrivate means the decoder owns its synth
	BindingPrivate
)

func (b Binding) String() string {
	switch b {
	case BindingPrimary:
		return "primary"
	case BindingPrivate:
		return "private"
	default:
		return "none"
	}
}

// Decoder renders one playback. Its binding is fixed at construction.
type Decoder struct {
	ctx     *Context
	id      uuid.UUID
	binding Binding
	synth   synth.Synth
	closed  bool
	frames  atomic.Int64
}

// NewDecoder creates a decoder bound to the primary synth when it is free,
// otherwise to a new private synth. When neither is possible the decoder is
// inert and the cause goes to the context's diagnostics.
func (c *Context) NewDecoder() *Decoder {
	d := &Decoder{ctx: c, id: uuid.New()}

	primary, err := c.acquirePrimary()
	if err != nil {
		c.report(fmt.Errorf("decoder %s: %w", d.id, err))
		return d
	}

	if primary != nil {
		// Clear state left by the previous holder
		primary.ProgramReset()
		d.synth = primary
		d.binding = BindingPrimary
		log.Printf("Decoder %s bound to primary synth", d.id)
		return d
	}

	private, err := c.createSynth()
	if err != nil {
		c.report(fmt.Errorf("decoder %s: %w: %w", d.id, ErrPrivateSynth, err))
		return d
	}

	d.synth = private
	d.binding = BindingPrivate
	log.Printf("Decoder %s bound to private synth", d.id)
	return d
}

// ID returns the decoder's unique identifier
func (d *Decoder) ID() uuid.UUID { return d.id }

// Binding returns the binding fixed at construction
func (d *Decoder) Binding() Binding { return d.binding }

// Inert reports whether the decoder has no synth to drive
func (d *Decoder) Inert() bool { return d.synth == nil }

// Frames returns the number of frames rendered so far
func (d *Decoder) Frames() int64 { return d.frames.Load() }

// Close destroys a private synth and returns a primary one to the context.
// Calls after the first are no-ops.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	d.ctx.release(d.binding)

	s := d.synth
	d.synth = nil

	if d.binding == BindingPrivate && s != nil {
		if err := s.Close(); err != nil {
			return fmt.Errorf("failed to destroy private synth: %w", err)
		}
	}
	return nil
}

// OnMidiMessage decodes a packed event word and forwards it to the synth
func (d *Decoder) OnMidiMessage(msg uint32) {
	if d.synth == nil {
		return
	}
	dispatch(d.synth, Message(msg))
}

// OnMidiReset forces a system reset on the bound synth
func (d *Decoder) OnMidiReset() {
	if d.synth == nil {
		return
	}
	d.synth.SystemReset()
}

// FillBuffer renders len(buf)/4 frames of 16-bit stereo PCM into buf. It
// returns len(buf), or FillFailed if the decoder is inert or the engine fails.
// Remainder bytes past the last whole frame are left untouched.
func (d *Decoder) FillBuffer(buf []byte) int {
	if d.synth == nil {
		return FillFailed
	}

	frames := len(buf) / audio.FrameBytes
	if err := d.synth.WriteS16(buf, frames); err != nil {
		return FillFailed
	}

	d.frames.Add(int64(frames))
	return len(buf)
}

// Reader returns an io.Reader that renders frame-aligned PCM on demand
func (d *Decoder) Reader() io.Reader {
	return &decoderReader{decoder: d}
}

type decoderReader struct {
	decoder *Decoder
}

func (r *decoderReader) Read(p []byte) (int, error) {
	n := len(p) - len(p)%audio.FrameBytes
	if n == 0 {
		return 0, io.ErrShortBuffer
	}

	if r.decoder.FillBuffer(p[:n]) == FillFailed {
		return 0, ErrFillFailed
	}
	return n, nil
}
