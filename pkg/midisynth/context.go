// ABOUTME: Shared synthesis resources
// ABOUTME: Owns the settings, the primary synth, and the live decoder bookkeeping
package midisynth

import (
	"fmt"
	"log"
	"sync"

	"github.com/Sendspin/sendspin-midi/pkg/synth"
	"github.com/Sendspin/sendspin-midi/pkg/vio"
)

// Context owns the settings and primary synth shared by all decoders. All
// decoders must be closed before the context.
type Context struct {
	config Config
	bridge *vio.Bridge

	// Set once by Initialize
	initOnce sync.Once
	initErr  error
	settings synth.Settings
	primary  synth.Synth

	mu          sync.Mutex
	live        int
	primaryBusy bool
	closed      bool
}

// NewContext creates an uninitialized context. No work is done until Initialize.
func NewContext(config Config) *Context {
	config = config.withDefaults()

	return &Context{
		config: config,
		bridge: vio.NewBridge(config.Provider),
	}
}

// Initialize creates the settings and loads the soundfont into the primary
// synth. Only the first call does any work; every call returns its result.
func (c *Context) Initialize() error {
	c.initOnce.Do(func() {
		c.initErr = c.initialize()
	})
	return c.initErr
}

func (c *Context) initialize() error {
	if c.config.Engine == nil {
		return fmt.Errorf("%w: no synthesis engine configured", ErrInitialization)
	}

	c.settings = c.config.settings()

	primary, err := c.createSynth()
	if err != nil {
		log.Printf("Synthesis context initialization failed: %v", err)
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	c.primary = primary

	log.Printf("Synthesis context ready: %s engine, %dHz, gain %.2f, polyphony %d, soundfont %s",
		c.config.Engine.Name(), c.settings.SampleRate, c.settings.Gain, c.settings.Polyphony, c.config.SoundfontName)

	return nil
}

// createSynth builds a synth from the shared settings and loads the soundfont
// through the stream bridge
func (c *Context) createSynth() (synth.Synth, error) {
	s, err := c.config.Engine.NewSynth(c.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create synth: %w", err)
	}

	if err := c.bridge.Load(c.config.SoundfontName, s.LoadSoundfont); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not load soundfont %s: %w", c.config.SoundfontName, err)
	}

	return s, nil
}

// Initialized reports whether Initialize has succeeded
func (c *Context) Initialized() bool {
	return c.primary != nil && c.initErr == nil
}

// PrimarySynth returns the shared synth, or nil before a successful Initialize
func (c *Context) PrimarySynth() synth.Synth {
	return c.primary
}

// Settings returns the shared synth settings
func (c *Context) Settings() synth.Settings {
	return c.settings
}

// Config returns the effective configuration
func (c *Context) Config() Config {
	return c.config
}

// LiveInstances returns the number of decoders not yet closed
func (c *Context) LiveInstances() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Close destroys the primary synth. Every decoder must be closed first.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if c.live > 0 {
		return fmt.Errorf("%w: %d", ErrInstancesAlive, c.live)
	}
	c.closed = true

	if c.primary == nil {
		return nil
	}
	err := c.primary.Close()
	c.primary = nil
	return err
}

// acquirePrimary marks a new live decoder and claims the primary synth
// when it is free
func (c *Context) acquirePrimary() (synth.Synth, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.live++

	if c.closed {
		return nil, ErrContextClosed
	}
	if !c.Initialized() {
		return nil, ErrNotInitialized
	}
	if c.primaryBusy {
		return nil, nil
	}

	c.primaryBusy = true
	return c.primary, nil
}

// release marks a decoder destroyed
func (c *Context) release(binding Binding) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.live--
	if c.live < 0 {
		panic("midisynth: live decoder count went negative")
	}
	if binding == BindingPrimary {
		c.primaryBusy = false
	}
}

// report delivers a non-fatal diagnostic
func (c *Context) report(err error) {
	log.Printf("Decoder diagnostic: %v", err)
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

