//go:build rtmidi

// ABOUTME: rtmidi-backed live MIDI input
// ABOUTME: Opens a hardware input port and forwards each message to a sink
package live

import (
	"fmt"
	"log"

	"github.com/mattrtaylor/go-rtmidi"
)

// Input is an open hardware input port
type Input struct {
	in   rtmidi.MIDIIn
	name string
}

// Ports lists the available input port names
func Ports() ([]string, error) {
	in, err := rtmidi.NewMIDIInDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to create MIDI input: %w", err)
	}
	defer in.Close()

	return portNames(in)
}

func portNames(in rtmidi.MIDIIn) ([]string, error) {
	count, err := in.PortCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get port count: %w", err)
	}

	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := in.PortName(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get port name: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Open starts forwarding messages from input port index to sink
func Open(port int, sink Sink) (*Input, error) {
	in, err := rtmidi.NewMIDIInDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to create MIDI input: %w", err)
	}

	names, err := portNames(in)
	if err != nil {
		in.Close()
		return nil, err
	}
	if len(names) == 0 {
		in.Close()
		return nil, fmt.Errorf("no MIDI input devices found")
	}
	if port < 0 || port >= len(names) {
		in.Close()
		return nil, fmt.Errorf("invalid port index: %d (have %d ports)", port, len(names))
	}

	if err := in.OpenPort(port, ""); err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to open MIDI port %s: %w", names[port], err)
	}

	err = in.SetCallback(func(_ rtmidi.MIDIIn, msg []byte, _ float64) {
		forward(sink, msg)
	})
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to set MIDI callback: %w", err)
	}

	log.Printf("Listening on MIDI port %d: %s", port, names[port])
	return &Input{in: in, name: names[port]}, nil
}

// Name returns the port name
func (i *Input) Name() string { return i.name }

// Close stops forwarding and releases the port
func (i *Input) Close() error {
	i.in.Close()
	return nil
}
