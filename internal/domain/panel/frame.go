package panel

import (
	"fmt"
	"strings"
)

// Frame is one decoded bus message: the raw bytes as sampled off the bus and
// the decoder's human-readable rendering.
type Frame struct {
	// Data holds the raw message bytes, command code first.
	Data []byte
	// Text is the decoded human-readable message.
	Text string
}

// Command returns the command code of the frame (its first byte).
func (f Frame) Command() byte {
	if len(f.Data) == 0 {
		return 0
	}

	return f.Data[0]
}

// Binary renders the raw bytes as space-separated 8-bit groups, the way they
// appear on the bus.
func (f Frame) Binary() string {
	parts := make([]string, len(f.Data))
	for i, b := range f.Data {
		parts[i] = fmt.Sprintf("%08b", b)
	}

	return strings.Join(parts, " ")
}

// String renders the fixed-width diagnostic form:
// binary bytes, bracketed command code in hex, decoded message.
func (f Frame) String() string {
	return fmt.Sprintf("%s [0x%02X] %s", f.Binary(), f.Command(), f.Text)
}
