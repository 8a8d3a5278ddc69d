// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"io"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
)

// Output represents an audio output device that mixes any number of streams
type Output interface {
	// Open initializes the output device
	Open(format audio.Format) error

	// Attach starts playing PCM pulled from r until it returns an error
	Attach(r io.Reader) (Stream, error)

	// Close releases output resources
	Close() error
}

// Stream is one playing source on an Output
type Stream interface {
	Pause()
	Resume()
	IsPlaying() bool
	Close() error
}
