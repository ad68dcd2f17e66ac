package io

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/memory"
)

func TestRom_NewRom(t *testing.T) {
	assert := assert.New(t)

	rom, err := NewRom("fits", make([]uint8, ROM_CAPACITY))
	assert.NoError(err)
	assert.Len(rom.Data, ROM_CAPACITY)

	_, err = NewRom("big", make([]uint8, ROM_CAPACITY+1))
	assert.ErrorIs(err, ErrRomTooLarge)
	assert.Contains(err.Error(), "big")
}

func TestRom_ReadRom(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"pong.ch8": &fstest.MapFile{Data: []uint8{0x6a, 0x02, 0x6b, 0x0c}},
	}

	rom, err := ReadRom(filesys, "pong.ch8")
	assert.NoError(err)
	assert.Equal("pong.ch8", rom.Name)
	assert.Equal([]uint8{0x6a, 0x02, 0x6b, 0x0c}, rom.Data)

	_, err = ReadRom(filesys, "missing.ch8")
	assert.ErrorIs(err, fs.ErrNotExist)
	assert.Contains(err.Error(), "missing.ch8")
}

func TestRom_LoadInto(t *testing.T) {
	assert := assert.New(t)

	mem := memory.NewMemory()
	rom, err := NewRom("test", []uint8{0x60, 0x05, 0x00, 0xee})
	assert.NoError(err)

	assert.NoError(rom.LoadInto(mem))

	view, err := mem.ReadRange(memory.PROGRAM_START, memory.PROGRAM_START+4)
	assert.NoError(err)
	assert.Equal([]uint8{0x60, 0x05, 0x00, 0xee}, view)

	// An image built by hand can still be too large.
	huge := &Rom{Name: "huge", Data: make([]uint8, ROM_CAPACITY+2)}
	huge.Data[0] = 0xff
	assert.ErrorIs(huge.Check(), ErrRomTooLarge)
	err = huge.LoadInto(mem)
	assert.ErrorIs(err, ErrRomTooLarge)
	assert.Contains(err.Error(), "huge")
	assert.Equal(uint8(0x60), mem.Data[memory.PROGRAM_START])
}

func TestFont(t *testing.T) {
	assert := assert.New(t)

	assert.Len(Font, FONT_GLYPH_COUNT*FONT_GLYPH_SIZE)
	// Glyph "F"
	assert.Equal([]uint8{0xF0, 0x80, 0xF0, 0x80, 0x80}, Font[0xf*FONT_GLYPH_SIZE:])
}
