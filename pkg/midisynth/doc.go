// ABOUTME: MIDI synthesis decoder package
// ABOUTME: Provides the shared synthesis Context and per-playback Decoder instances
// Package midisynth turns packed MIDI channel events into interleaved 16-bit
// stereo PCM using a synth.Engine.
//
// A Context owns the process-wide resources: one Settings record and one
// primary synth loaded with the soundfont. It is created once at startup and
// passed to every decoder:
//
//	ctx := midisynth.NewContext(midisynth.Config{
//	    Engine:   melty.New(),
//	    Provider: vio.FS(os.DirFS("soundfonts")),
//	})
//	if err := ctx.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//
// The first live Decoder shares the primary synth. Every additional
// concurrent Decoder gets a private synth created from the same settings and
// soundfont, so no two decoders ever drive the same synth:
//
//	dec := ctx.NewDecoder()
//	defer dec.Close()
//	dec.OnMidiMessage(midisynth.Pack(0x90, 60, 100))
//	n := dec.FillBuffer(buf) // len(buf), or FillFailed
//
// Decoders do no internal locking. A caller that dispatches messages and
// fills buffers from different goroutines must synchronize them.
package midisynth
