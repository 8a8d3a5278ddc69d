// ABOUTME: Conversion of raw port bytes to packed MIDI words
// ABOUTME: Keeps channel voice messages and system reset, drops everything else
package live

import "github.com/Sendspin/sendspin-midi/pkg/midisynth"

// Sink receives packed MIDI words
type Sink interface {
	Send(msg uint32)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(msg uint32)

// Send calls f(msg)
func (f SinkFunc) Send(msg uint32) { f(msg) }

// Convert packs one raw message from an input port
func Convert(b []byte) (uint32, bool) {
	if len(b) == 0 {
		return 0, false
	}

	status := b[0]
	switch {
	case status == midisynth.SystemReset:
		return midisynth.Pack(status, 0, 0), true
	case status < 0x80 || status >= 0xF0:
		return 0, false
	case len(b) < 2:
		return 0, false
	}

	var data2 byte
	if len(b) > 2 {
		data2 = b[2]
	}
	return midisynth.Pack(status, b[1], data2), true
}

func forward(sink Sink, b []byte) {
	if msg, ok := Convert(b); ok {
		sink.Send(msg)
	}
}
