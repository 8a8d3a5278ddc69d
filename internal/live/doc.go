// Package live forwards messages from a hardware MIDI input port to a
// decoder.
//
// Port access needs the rtmidi C library and is compiled in with the
// rtmidi build tag:
//
//	go build -tags rtmidi ./cmd/sendspin-midi
//
// Without the tag, Open and Ports report that live input is not available.
package live
