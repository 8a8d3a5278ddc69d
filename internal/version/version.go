// ABOUTME: Version and product identification constants
// ABOUTME: Reported by the CLI -version flag and the startup log
package version

import "fmt"

const (
	// Version is the software release
	Version = "0.1.0"
	// Product is the product name
	Product = "Sendspin MIDI"
	// Manufacturer identifies the maker
	Manufacturer = "Sendspin"
)

// String formats the line printed by -version
func String() string {
	return fmt.Sprintf("%s %s (%s)", Product, Version, Manufacturer)
}
