package io

import (
	"io/fs"

	"github.com/pkg/errors"

	"github.com/ezrec/chip8/memory"
)

// ROM_CAPACITY is the largest program image that fits above PROGRAM_START.
const ROM_CAPACITY = memory.MEMORY_SIZE - memory.PROGRAM_START

// Rom is a raw program image, copied verbatim to PROGRAM_START.
type Rom struct {
	Name string
	Data []uint8
}

// NewRom wraps a program image, checking that it fits in memory.
func NewRom(name string, data []uint8) (rom *Rom, err error) {
	rom = &Rom{
		Name: name,
		Data: data,
	}

	err = rom.Check()
	if err != nil {
		rom = nil
	}
	return
}

// Check verifies that the image fits above PROGRAM_START.
func (rom *Rom) Check() (err error) {
	if len(rom.Data) > ROM_CAPACITY {
		err = errors.Wrapf(ErrRomTooLarge, "%v: %d bytes, capacity %d", rom.Name, len(rom.Data), ROM_CAPACITY)
	}
	return
}

// ReadRom reads a program image from a file system.
func ReadRom(filesys fs.FS, name string) (rom *Rom, err error) {
	data, err := fs.ReadFile(filesys, name)
	if err != nil {
		err = errors.Wrapf(err, "rom %v", name)
		return
	}

	return NewRom(name, data)
}

// LoadInto writes the image into mem at PROGRAM_START.
func (rom *Rom) LoadInto(mem *memory.Memory) (err error) {
	err = rom.Check()
	if err != nil {
		return
	}

	err = mem.CopyBlock(memory.PROGRAM_START, rom.Data)
	if err != nil {
		err = errors.Wrapf(err, "rom %v", rom.Name)
	}
	return
}
