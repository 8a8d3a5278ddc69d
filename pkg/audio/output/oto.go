// ABOUTME: Oto-based audio output implementation
// ABOUTME: Plays decoder readers as oto players with shared volume control
package output

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	mu      sync.Mutex
	otoCtx  *oto.Context
	format  audio.Format
	players map[*otoStream]struct{}
	volume  int
	muted   bool
	ready   bool
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	return &Oto{
		players: make(map[*otoStream]struct{}),
		volume:  100,
		muted:   false,
	}
}

// Open initializes the output device
func (o *Oto) Open(format audio.Format) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// oto only supports 16-bit output
	if format.BitDepth != 16 {
		log.Printf("Warning: oto only supports 16-bit output, ignoring requested bitDepth=%d", format.BitDepth)
	}

	// oto allows one context per process
	if o.otoCtx != nil {
		if o.format.SampleRate != format.SampleRate || o.format.Channels != format.Channels {
			log.Printf("Warning: format change detected (%dHz %dch -> %dHz %dch) but oto doesn't support reinitialization. Continuing with existing context.",
				o.format.SampleRate, o.format.Channels, format.SampleRate, format.Channels)
		}
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.format = format
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)

	return nil
}

// Attach creates a player pulling from r and starts it
func (o *Oto) Attach(r io.Reader) (Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.ready {
		return nil, fmt.Errorf("output not initialized")
	}

	s := &otoStream{owner: o, player: o.otoCtx.NewPlayer(r)}
	s.player.SetVolume(getVolumeMultiplier(o.volume, o.muted))
	s.player.Play()
	o.players[s] = struct{}{}

	return s, nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	players := make([]*otoStream, 0, len(o.players))
	for s := range o.players {
		players = append(players, s)
	}
	o.mu.Unlock()

	for _, s := range players {
		s.Close()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Failed to suspend audio output: %v", err)
		}
		o.ready = false
	}
	return nil
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	o.mu.Lock()
	o.volume = volume
	o.applyVolumeLocked()
	o.mu.Unlock()

	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (o *Oto) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.applyVolumeLocked()
	o.mu.Unlock()

	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (o *Oto) GetVolume() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

// IsMuted returns mute state
func (o *Oto) IsMuted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

func (o *Oto) applyVolumeLocked() {
	v := getVolumeMultiplier(o.volume, o.muted)
	for s := range o.players {
		s.player.SetVolume(v)
	}
}

func (o *Oto) forget(s *otoStream) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.players, s)
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}

type otoStream struct {
	owner  *Oto
	player *oto.Player
	once   sync.Once
}

func (s *otoStream) Pause()          { s.player.Pause() }
func (s *otoStream) Resume()         { s.player.Play() }
func (s *otoStream) IsPlaying() bool { return s.player.IsPlaying() }

func (s *otoStream) Close() error {
	var err error
	s.once.Do(func() {
		s.owner.forget(s)
		err = s.player.Close()
	})
	return err
}
