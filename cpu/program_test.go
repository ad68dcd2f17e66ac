package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(testProgram))
	if !assert.NoError(err) {
		return
	}

	dbg := prog.Debug(0x200)
	if assert.NotNil(dbg.Line) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal(0, dbg.Index)
	}

	dbg = prog.Debug(0x20F)
	if assert.NotNil(dbg.Line) {
		assert.Equal(11, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}

	dbg = prog.Debug(0x212)
	if assert.NotNil(dbg.Line) {
		assert.Equal(12, dbg.LineNo)
		assert.Equal(1, dbg.Index)
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Nil(prog.Debug(0x200).Line)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("CLS\n"))
	assert.NoError(err)
	assert.Nil(prog.Debug(0x1FF).Line)
	assert.Nil(prog.Debug(0x202).Line)
}

func TestProgram_String(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(testProgram))
	if !assert.NoError(err) {
		return
	}

	lines := strings.Split(prog.String(), "\n")
	assert.Equal("200: 6005     LD V0, COUNT", lines[0])
	assert.Equal("20C: 00EE     RET", lines[6])
	assert.Equal("20E: F0900A   .db 0xF0, 0x90, $(COUNT * 2)", lines[7])
}

func TestProgram_Rom(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(testProgram))
	if !assert.NoError(err) {
		return
	}

	rom, err := prog.Rom("countdown")
	assert.NoError(err)
	assert.Equal("countdown", rom.Name)
	assert.Equal(prog.Binary(), rom.Data)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	data := []uint8{0x60, 0x05, 0x00, 0xEE, 0xFF, 0xFF, 0x12}

	var addrs []uint16
	var ops []Opcode
	for addr, op := range Disassemble(data, 0x200) {
		addrs = append(addrs, addr)
		ops = append(ops, op)
	}

	assert.Equal([]uint16{0x200, 0x202, 0x204}, addrs)
	assert.Equal([]Opcode{
		LoadImmediate{X: 0, K: 5},
		Return{},
		Invalid{Code: 0xFFFF},
	}, ops)

	for range Disassemble(data, 0x200) {
		break
	}
}
