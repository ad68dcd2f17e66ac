package memory

import (
	"fmt"
	"strings"
)

const dumpWidth = 16

// Snapshot is a copy of memory taken for diagnostics.
type Snapshot struct {
	Data [MEMORY_SIZE]uint8
}

// String renders the snapshot as rows of 16 bytes in hex, followed by an
// ASCII column where non-printable bytes are shown as '.'.
func (snap Snapshot) String() string {
	var sb strings.Builder

	for addr := 0; addr < MEMORY_SIZE; addr += dumpWidth {
		row := snap.Data[addr : addr+dumpWidth]

		fmt.Fprintf(&sb, "%03X:", addr)
		for n, b := range row {
			if n == dumpWidth/2 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, " %02X", b)
		}
		sb.WriteString("  |")
		for _, b := range row {
			if b < 0x20 || b > 0x7e {
				b = '.'
			}
			sb.WriteByte(b)
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}
