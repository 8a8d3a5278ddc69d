// ABOUTME: Virtual I/O package bridging engine file callbacks onto stream providers
// ABOUTME: Provides Bridge, Handle, and Provider implementations for FS, memory and HTTP
// Package vio lets a synthesis engine read resources through an abstract stream
// provider instead of raw filesystem paths.
//
// A Bridge exposes the five callbacks a soundfont loader expects (open, read,
// seek, tell, close) and maps them onto a Provider. Handles follow C stdio
// semantics: a short read sets a sticky end-of-data flag which only a seek clears.
//
// Example:
//
//	bridge := vio.NewBridge(vio.FS(os.DirFS("/usr/share/soundfonts")))
//	err := bridge.Load("default.sf2", func(r io.ReadSeeker) error {
//	    return synth.LoadSoundfont(r)
//	})
package vio
