// ABOUTME: Audio encoder package for rendered output
// ABOUTME: Provides Encoder interface and the WAV implementation
// Package encode writes synthesized PCM to container formats.
//
// Supports: WAV (RIFF, 16-bit PCM) via go-audio/wav
//
// Example:
//
//	f, _ := os.Create("out.wav")
//	enc, err := encode.NewWAV(f, audio.StereoInt16(44100))
//	_, err = enc.Write(pcm)
//	err = enc.Close()
package encode
