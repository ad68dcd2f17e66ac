package cpu

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ezrec/chip8/io"
)

// Line is a single assembled statement.
type Line struct {
	LineNo int      // Source line number.
	Addr   int      // Load address of the first byte.
	Words  []string // Mnemonic followed by its operands, as written.
	Data   []uint8  // Encoded bytes.
	Opcode Opcode   // Assembled instruction, nil for data directives.
}

// String renders the line as a listing entry.
func (ln Line) String() string {
	var hex strings.Builder
	for _, b := range ln.Data {
		fmt.Fprintf(&hex, "%02X", b)
	}
	text := ln.Words[0]
	if len(ln.Words) > 1 {
		text += " " + strings.Join(ln.Words[1:], ", ")
	}
	return fmt.Sprintf("%03X: %-8s %v", ln.Addr, hex.String(), text)
}

// Program is the output of the assembler.
type Program struct {
	Lines []Line
}

// Debug locates the source line that produced a byte.
type Debug struct {
	*Line
	Index int // Offset of the address within the line's data.
}

// Debug maps a memory address back to the line that assembled it.
// The returned Line is nil if no line covers the address.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, ln := range prog.Lines {
		if int(addr) >= ln.Addr && int(addr) < ln.Addr+len(ln.Data) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr) - ln.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the program image, to be loaded at PROGRAM_START.
func (prog *Program) Binary() (data []uint8) {
	for _, ln := range prog.Lines {
		data = append(data, ln.Data...)
	}

	return
}

// Opcodes iterates over the assembled instructions by address.
func (prog *Program) Opcodes() iter.Seq2[uint16, Opcode] {
	return func(yield func(addr uint16, op Opcode) bool) {
		for _, ln := range prog.Lines {
			if ln.Opcode == nil {
				continue
			}
			if !yield(uint16(ln.Addr), ln.Opcode) {
				return
			}
		}
	}
}

// Rom packages the program image as a ROM.
func (prog *Program) Rom(name string) (rom *io.Rom, err error) {
	return io.NewRom(name, prog.Binary())
}

// String returns the assembled listing.
func (prog *Program) String() string {
	var sb strings.Builder
	for _, ln := range prog.Lines {
		sb.WriteString(ln.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Disassemble decodes a program image loaded at origin, one instruction
// word at a time. A trailing odd byte is not decoded.
func Disassemble(data []uint8, origin uint16) iter.Seq2[uint16, Opcode] {
	return func(yield func(addr uint16, op Opcode) bool) {
		for n := 0; n+1 < len(data); n += INSTRUCTION_SIZE {
			word := (uint16(data[n]) << 8) | uint16(data[n+1])
			if !yield(origin+uint16(n), Decode(word)) {
				return
			}
		}
	}
}
