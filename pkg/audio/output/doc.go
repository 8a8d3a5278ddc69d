// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and the oto implementation
// Package output provides audio playback interfaces.
//
// Each playing decoder becomes one Stream on a shared Output; oto mixes them.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(audio.StereoInt16(44100))
//	stream, err := out.Attach(decoder.Reader())
//	defer stream.Close()
package output
