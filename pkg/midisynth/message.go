// ABOUTME: Packed MIDI event words and their dispatch
// ABOUTME: Decodes status/data bytes and calls the matching synth operation
package midisynth

import "github.com/Sendspin/sendspin-midi/pkg/synth"

// Event types (high nibble of the status byte)
const (
	NoteOff         = 0x80
	NoteOn          = 0x90
	KeyPressure     = 0xA0
	ControlChange   = 0xB0
	ProgramChange   = 0xC0
	ChannelPressure = 0xD0
	PitchBend       = 0xE0

	// SystemReset is the full status byte of a MIDI system reset
	SystemReset = 0xFF
)

// Message is a packed event: byte 0 status, byte 1 data1, byte 2 data2
type Message uint32

// Pack builds a packed event word
func Pack(status, data1, data2 byte) uint32 {
	return uint32(status) | uint32(data1)<<8 | uint32(data2)<<16
}

// Status returns the status byte
func (m Message) Status() int { return int(m & 0xFF) }

// Type returns the event type nibble
func (m Message) Type() int { return m.Status() & 0xF0 }

// Channel returns the channel nibble
func (m Message) Channel() int { return m.Status() & 0x0F }

// Data1 returns the first data byte, masked to 7 bits
func (m Message) Data1() int { return int(m>>8) & 0x7F }

// Data2 returns the second data byte, masked to 7 bits
func (m Message) Data2() int { return int(m>>16) & 0x7F }

// PitchBendValue returns the 14-bit bend value, data1 being the LSB
func (m Message) PitchBendValue() int {
	return (m.Data2()&0x7F)<<7 | (m.Data1() & 0x7F)
}

// dispatch invokes the synth operation for m. Unknown events are ignored.
func dispatch(s synth.Synth, m Message) {
	if m.Status() == SystemReset {
		s.SystemReset()
		return
	}

	ch := m.Channel()
	switch m.Type() {
	case NoteOff:
		s.NoteOff(ch, m.Data1())
	case NoteOn:
		s.NoteOn(ch, m.Data1(), m.Data2())
	case KeyPressure:
		s.KeyPressure(m.Status(), m.Data1(), m.Data2())
	case ControlChange:
		s.ControlChange(ch, m.Data1(), m.Data2())
	case ProgramChange:
		s.ProgramChange(ch, m.Data1())
	case ChannelPressure:
		s.ChannelPressure(ch, m.Data1())
	case PitchBend:
		s.PitchBend(ch, m.PitchBendValue())
	}
}
