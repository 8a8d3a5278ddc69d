// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for PCM container encoders
package encode

// Encoder writes 16-bit interleaved PCM into a container
type Encoder interface {
	// Write appends PCM bytes
	Write(pcm []byte) (int, error)

	// Close finalizes the container
	Close() error
}
