//go:build !rtmidi

// ABOUTME: Live MIDI input stub when rtmidi is not compiled in
// ABOUTME: Provides compile-time placeholder when the rtmidi library is not installed
package live

import (
	"errors"
)

// ErrUnavailable reports a build without rtmidi support
var ErrUnavailable = errors.New("live MIDI input not enabled (build with -tags rtmidi)")

// Input is an open hardware input port (stub)
type Input struct{}

// Ports lists the available input port names
func Ports() ([]string, error) {
	return nil, ErrUnavailable
}

// Open starts forwarding messages from input port index to sink
func Open(port int, sink Sink) (*Input, error) {
	return nil, ErrUnavailable
}

// Name returns the port name
func (i *Input) Name() string { return "" }

// Close releases the port
func (i *Input) Close() error { return nil }
