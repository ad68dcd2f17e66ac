package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word   uint16
		opcode Opcode
		text   string
	}){
		{0x00E0, ClearScreen{}, "CLS"},
		{0x00EE, Return{}, "RET"},
		{0x0123, Sys{N: 0x123}, "SYS 0x123"},
		{0x0000, Sys{N: 0x000}, "SYS 0x000"},
		{0x1228, Jump{N: 0x228}, "JP 0x228"},
		{0x2ABC, Call{N: 0xABC}, "CALL 0xABC"},
		{0x3A12, SkipEqualImmediate{X: 0xA, K: 0x12}, "SE VA, 0x12"},
		{0x4B34, SkipNotEqualImmediate{X: 0xB, K: 0x34}, "SNE VB, 0x34"},
		{0x5120, SkipEqual{X: 1, Y: 2}, "SE V1, V2"},
		{0x5121, Invalid{Code: 0x5121}, ".dw 0x5121"},
		{0x6C45, LoadImmediate{X: 0xC, K: 0x45}, "LD VC, 0x45"},
		{0x7D56, AddImmediate{X: 0xD, K: 0x56}, "ADD VD, 0x56"},
		{0x8120, Move{X: 1, Y: 2}, "LD V1, V2"},
		{0x8121, Or{X: 1, Y: 2}, "OR V1, V2"},
		{0x8122, And{X: 1, Y: 2}, "AND V1, V2"},
		{0x8123, Xor{X: 1, Y: 2}, "XOR V1, V2"},
		{0x8124, Add{X: 1, Y: 2}, "ADD V1, V2"},
		{0x8125, Sub{X: 1, Y: 2}, "SUB V1, V2"},
		{0x8126, ShiftRight{X: 1, Y: 2}, "SHR V1, V2"},
		{0x8127, SubReverse{X: 1, Y: 2}, "SUBN V1, V2"},
		{0x812E, ShiftLeft{X: 1, Y: 2}, "SHL V1, V2"},
		{0x8128, Invalid{Code: 0x8128}, ".dw 0x8128"},
		{0x9340, SkipNotEqual{X: 3, Y: 4}, "SNE V3, V4"},
		{0x9341, Invalid{Code: 0x9341}, ".dw 0x9341"},
		{0xA123, LoadIndex{N: 0x123}, "LD I, 0x123"},
		{0xB456, JumpOffset{N: 0x456}, "JP V0, 0x456"},
		{0xC7FF, Random{X: 7, K: 0xFF}, "RND V7, 0xFF"},
		{0xD125, Draw{X: 1, Y: 2, N: 5}, "DRW V1, V2, 5"},
		{0xE19E, SkipKeyDown{X: 1}, "SKP V1"},
		{0xE1A1, SkipKeyUp{X: 1}, "SKNP V1"},
		{0xE1A2, Invalid{Code: 0xE1A2}, ".dw 0xE1A2"},
		{0xF107, LoadDelay{X: 1}, "LD V1, DT"},
		{0xF20A, WaitKey{X: 2}, "LD V2, K"},
		{0xF315, SetDelay{X: 3}, "LD DT, V3"},
		{0xF418, SetSound{X: 4}, "LD ST, V4"},
		{0xF51E, AddIndex{X: 5}, "ADD I, V5"},
		{0xF629, LoadFont{X: 6}, "LD F, V6"},
		{0xF733, StoreBCD{X: 7}, "LD B, V7"},
		{0xF855, StoreRegisters{X: 8}, "LD [I], V8"},
		{0xF965, LoadRegisters{X: 9}, "LD V9, [I]"},
		{0xF100, Invalid{Code: 0xF100}, ".dw 0xF100"},
		{0xFFFF, Invalid{Code: 0xFFFF}, ".dw 0xFFFF"},
	}

	for _, entry := range table {
		op := Decode(entry.word)
		assert.Equal(entry.opcode, op, "%04X", entry.word)
		assert.Equal(entry.text, op.String(), "%04X", entry.word)
		assert.Equal(entry.word, op.Word(), "%04X", entry.word)
	}
}

func TestDecode_Word(t *testing.T) {
	assert := assert.New(t)

	for n := range 0x10000 {
		word := uint16(n)
		if !assert.Equal(word, Decode(word).Word(), "%04X", word) {
			break
		}
	}
}

func TestOpcode_WordMasksFields(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0x1234), Jump{N: 0xF234}.Word())
	assert.Equal(uint16(0x6F12), LoadImmediate{X: 0x1F, K: 0x12}.Word())
	assert.Equal(uint16(0xD12F), Draw{X: 0x11, Y: 0x22, N: 0xFF}.Word())
}

func FuzzDecode(f *testing.F) {
	f.Add(uint16(0x0000))
	f.Add(uint16(0x00E0))
	f.Add(uint16(0x00EE))
	f.Add(uint16(0x8FFE))
	f.Add(uint16(0xFFFF))

	f.Fuzz(func(t *testing.T, word uint16) {
		assert := assert.New(t)

		op := Decode(word)
		assert.NotNil(op)
		assert.Equal(word, op.Word())
		assert.NotEmpty(op.String())
	})
}
