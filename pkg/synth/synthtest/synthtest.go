// ABOUTME: Recording synthesis engine for tests
// ABOUTME: Captures every engine call and allows injecting create, load and write failures
// Package synthtest provides a synth.Engine that records calls instead of
// producing sound.
package synthtest

import (
	"fmt"
	"io"
	"sync"

	"github.com/Sendspin/sendspin-midi/pkg/synth"
)

// Call is one recorded engine operation
type Call struct {
	Op   string
	Args []int
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Engine records the synths it creates. Set the error fields to inject
// failures into subsequent operations.
type Engine struct {
	mu sync.Mutex

	CreateErr error
	LoadErr   error
	WriteErr  error

	synths []*Synth
}

// NewEngine creates a recording engine
func NewEngine() *Engine {
	return &Engine{}
}

// Name identifies the backend
func (e *Engine) Name() string { return "synthtest" }

// NewSynth records and returns a new synth
func (e *Engine) NewSynth(settings synth.Settings) (synth.Synth, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.CreateErr != nil {
		return nil, e.CreateErr
	}

	s := &Synth{engine: e, Settings: settings}
	e.synths = append(e.synths, s)
	return s, nil
}

// Synths returns every synth created so far
func (e *Engine) Synths() []*Synth {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Synth(nil), e.synths...)
}

// Loads returns the total number of soundfont loads across all synths
func (e *Engine) Loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, s := range e.synths {
		n += s.loads
	}
	return n
}

func (e *Engine) errors() (load, write error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.LoadErr, e.WriteErr
}

// Synth records calls made to it
type Synth struct {
	engine   *Engine
	Settings synth.Settings

	mu        sync.Mutex
	calls     []Call
	soundfont []byte
	loads     int
	closed    int
}

// LoadSoundfont reads the whole soundfont so stream access is exercised
func (s *Synth) LoadSoundfont(r io.ReadSeeker) error {
	loadErr, _ := s.engine.errors()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", synth.ErrLoad, err)
	}

	s.engine.mu.Lock()
	s.loads++
	s.engine.mu.Unlock()

	if loadErr != nil {
		return loadErr
	}

	s.mu.Lock()
	s.soundfont = data
	s.mu.Unlock()
	return nil
}

func (s *Synth) NoteOn(channel, key, velocity int) { s.record("noteon", channel, key, velocity) }
func (s *Synth) NoteOff(channel, key int)          { s.record("noteoff", channel, key) }
func (s *Synth) KeyPressure(status, key, value int) {
	s.record("key_pressure", status, key, value)
}
func (s *Synth) ControlChange(channel, controller, value int) {
	s.record("cc", channel, controller, value)
}
func (s *Synth) ProgramChange(channel, program int) { s.record("program_change", channel, program) }
func (s *Synth) ChannelPressure(channel, value int) { s.record("channel_pressure", channel, value) }
func (s *Synth) PitchBend(channel, value int)       { s.record("pitch_bend", channel, value) }
func (s *Synth) SystemReset()                       { s.record("system_reset") }
func (s *Synth) ProgramReset()                      { s.record("program_reset") }

// WriteS16 fills the frames with 0x7F bytes and records the frame count
func (s *Synth) WriteS16(dst []byte, frames int) error {
	s.record("write_s16", frames)

	_, writeErr := s.engine.errors()
	if writeErr != nil {
		return writeErr
	}
	if len(dst) < frames*4 {
		return fmt.Errorf("short buffer: %w", synth.ErrWrite)
	}

	for i := 0; i < frames*4; i++ {
		dst[i] = 0x7F
	}
	return nil
}

// Close marks the synth destroyed
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

// Calls returns the recorded calls
func (s *Synth) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Reset forgets recorded calls
func (s *Synth) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Soundfont returns the bytes read by the last successful load
func (s *Synth) Soundfont() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.soundfont
}

// Closed returns how many times Close was called
func (s *Synth) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Synth) record(op string, args ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: op, Args: args})
}
