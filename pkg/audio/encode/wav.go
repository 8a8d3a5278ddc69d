// ABOUTME: WAV audio encoder
// ABOUTME: Streams 16-bit PCM bytes into a go-audio RIFF/WAVE encoder
package encode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Sendspin/sendspin-midi/pkg/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE format tag for integer PCM
const wavFormatPCM = 1

// maxDataSize is the largest data chunk the 32-bit RIFF size can describe
const maxDataSize = math.MaxUint32 - 36

// ErrTooLarge reports PCM that no longer fits in a RIFF file
var ErrTooLarge = errors.New("wav data exceeds 4 GiB RIFF limit")

// WAVEncoder writes a RIFF/WAVE file
type WAVEncoder struct {
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	dataSize int64
	wrote    bool
	closed   bool
}

// NewWAV creates an encoder writing to w. w stays open after Close.
func NewWAV(w io.WriteSeeker, format audio.Format) (*WAVEncoder, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid format: %dHz %d channels", format.SampleRate, format.Channels)
	}

	return &WAVEncoder{
		enc: wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: format.Channels,
				SampleRate:  format.SampleRate,
			},
			SourceBitDepth: format.BitDepth,
		},
	}, nil
}

// Write appends little-endian 16-bit PCM bytes
func (e *WAVEncoder) Write(pcm []byte) (int, error) {
	if e.closed {
		return 0, fmt.Errorf("wav encoder closed")
	}
	if len(pcm)%2 != 0 {
		return 0, fmt.Errorf("pcm length %d is not a whole number of 16-bit samples", len(pcm))
	}
	if e.dataSize+int64(len(pcm)) > maxDataSize {
		return 0, ErrTooLarge
	}

	samples := len(pcm) / 2
	if cap(e.buf.Data) < samples {
		e.buf.Data = make([]int, samples)
	}
	e.buf.Data = e.buf.Data[:samples]
	for i := range e.buf.Data {
		e.buf.Data[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}

	if err := e.enc.Write(e.buf); err != nil {
		return 0, fmt.Errorf("wav write failed: %w", err)
	}
	e.dataSize += int64(len(pcm))
	e.wrote = true
	return len(pcm), nil
}

// Close rewrites the header with the final sizes
func (e *WAVEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	// go-audio writes the header with the first buffer
	if !e.wrote {
		e.buf.Data = e.buf.Data[:0]
		if err := e.enc.Write(e.buf); err != nil {
			return fmt.Errorf("failed to write wav header: %w", err)
		}
	}

	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finish wav: %w", err)
	}
	return nil
}
