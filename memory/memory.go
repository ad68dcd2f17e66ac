// Package memory implements the flat 4KB byte store of the CHIP-8 machine.
//
// Memory map:
//
//	0x000-0x1FF: interpreter reserved
//	0x050-0x09F: built-in 4x5 font set (0-F)
//	0x200-0xFFF: program and work RAM
package memory

import (
	"fmt"
	"iter"
	"maps"
	"math/rand"
)

const (
	MEMORY_SIZE   = 0x1000 // Addressable bytes.
	FONT_BASE     = 0x050  // First byte of the font glyphs.
	PROGRAM_START = 0x200  // Load address of program images.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"FONT_BASE":     fmt.Sprintf("%#x", FONT_BASE),
	"PROGRAM_START": fmt.Sprintf("%#x", PROGRAM_START),
}

// Memory is the byte-addressable store. Every access is bounds checked,
// and a failed access never modifies the store.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

// NewMemory creates a new, zeroed memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}

	return
}

// Defines for the memory layout.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// check verifies that [from, to) lies within memory.
func check(from, to int) (err error) {
	if from < 0 || to > MEMORY_SIZE || from > to {
		err = &ErrAddress{From: from, To: to}
	}
	return
}

// Reset clears all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

// Randomize fills memory with pseudo-random content.
func (mem *Memory) Randomize(seed int) {
	rands := rand.New(rand.NewSource(int64(seed)))
	for n := range mem.Data {
		mem.Data[n] = uint8(rands.Intn(256))
	}
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr uint16) (value uint8, err error) {
	err = check(int(addr), int(addr)+1)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// ReadWord returns the big-endian 16-bit word at addr, addr+1.
func (mem *Memory) ReadWord(addr uint16) (value uint16, err error) {
	err = check(int(addr), int(addr)+2)
	if err != nil {
		return
	}

	value = (uint16(mem.Data[addr]) << 8) | uint16(mem.Data[addr+1])
	return
}

// ReadRange returns a view of the bytes in [from, to).
// The view aliases memory; callers must copy it to retain it.
func (mem *Memory) ReadRange(from, to uint16) (view []uint8, err error) {
	err = check(int(from), int(to))
	if err != nil {
		return
	}

	view = mem.Data[from:to]
	return
}

// Write sets the byte at addr.
func (mem *Memory) Write(addr uint16, value uint8) (err error) {
	err = check(int(addr), int(addr)+1)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// CopyBlock writes data as a contiguous run starting at addr.
func (mem *Memory) CopyBlock(addr uint16, data []uint8) (err error) {
	err = check(int(addr), int(addr)+len(data))
	if err != nil {
		return
	}

	copy(mem.Data[addr:], data)
	return
}

// Dump returns a snapshot of the current memory contents.
func (mem *Memory) Dump() (snap Snapshot) {
	snap.Data = mem.Data
	return
}
