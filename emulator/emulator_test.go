package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
)

func assemble(t *testing.T, emu *Emulator, program []string) {
	asm := emu.Assembler()
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	err = emu.LoadProgram(prog)
	if err != nil {
		t.Fatal(err)
	}
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.Equal(emu.Screen, emu.Display)
	assert.Equal(emu.HexKeypad, emu.Keypad)
	assert.Equal(cpu.STATE_RUNNING, emu.State)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("700", defines["CLOCK_HZ"])
	assert.Equal("60", defines["TIMER_HZ"])
	assert.Equal("16", defines["STACK_LIMIT"])
	assert.Equal("0x1000", defines["MEMORY_SIZE"])
	assert.Equal("0x50", defines["FONT_BASE"])

	for range emu.Defines() {
		break
	}
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	rom, err := io.NewRom("test", []uint8{0x60, 0x05, 0x12, 0x02})
	assert.NoError(err)

	emu.Memory.Randomize(1)
	emu.Registers.V[3] = 0x33
	emu.HexKeypad.Press(4)
	emu.Buzzer.Tone(true)

	assert.NoError(emu.Load(rom))

	assert.Equal(io.Font[:], emu.Memory.Data[memory.FONT_BASE:memory.FONT_BASE+len(io.Font)])
	assert.Equal([]uint8{0x60, 0x05, 0x12, 0x02, 0x00}, emu.Memory.Data[0x200:0x205])
	assert.Equal(uint8(0), emu.Memory.Data[0x000])
	assert.Equal(uint16(0x200), emu.Registers.Pc)
	assert.Equal(uint8(0), emu.Registers.V[3])
	assert.False(emu.HexKeypad.IsKeyDown(4))
	assert.False(emu.Buzzer.(*io.Beeper).On)
	assert.Nil(emu.Program)

	assert.NoError(emu.Tick())
	assert.NoError(emu.Tick())
	assert.Equal(uint8(5), emu.Registers.V[0])
	assert.Equal(uint16(0x202), emu.Registers.Pc)
}

func TestEmulator_ResetRomTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"LD V0, 5",
	})
	assert.NoError(emu.Tick())

	rom := emu.Rom
	mem := emu.Memory.Dump()
	regs := emu.Registers

	huge := &io.Rom{Name: "huge", Data: make([]uint8, io.ROM_CAPACITY+1)}
	assert.ErrorIs(emu.Load(huge), io.ErrRomTooLarge)
	assert.Equal(rom, emu.Rom)

	emu.Rom = huge
	assert.ErrorIs(emu.Reset(), io.ErrRomTooLarge)
	assert.True(mem == emu.Memory.Dump(), "memory modified")
	assert.Equal(regs, emu.Registers)
	assert.Equal(uint8(5), emu.Registers.V[0])
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"LD V0, 5",
		"LD V1, 3",
		"ADD V0, V1",
		"RET",
	})

	for range 3 {
		assert.NoError(emu.Tick())
	}
	assert.Equal(uint8(8), emu.Registers.V[0])
	assert.Equal(uint16(0x206), emu.Registers.Pc)
	assert.Equal(4, emu.LineNo(emu.Registers.Pc))

	err := emu.Tick()
	assert.ErrorIs(err, cpu.ErrStackUnderflow)
	assert.Equal(cpu.STATE_HALTED, emu.State)

	var er *ErrRuntime
	if assert.True(errors.As(err, &er)) {
		assert.Equal(4, er.LineNo)
		assert.True(strings.HasPrefix(er.Error(), "line 4 "))
	}

	var eh *cpu.ErrHalt
	if assert.True(errors.As(err, &eh)) {
		assert.Equal(uint16(0x206), eh.Pc)
	}

	assert.ErrorIs(emu.Tick(), cpu.ErrHalted)

	assert.NoError(emu.Reset())
	assert.Equal(cpu.STATE_RUNNING, emu.State)
	assert.NoError(emu.Tick())
}

func TestEmulator_TickRawRom(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	rom, err := io.NewRom("bad", []uint8{0xFF, 0xFF})
	assert.NoError(err)
	assert.NoError(emu.Load(rom))

	err = emu.Tick()
	assert.ErrorIs(err, cpu.ErrInvalidOpcode)

	var er *ErrRuntime
	if assert.True(errors.As(err, &er)) {
		assert.Equal(0, er.LineNo)
	}
}

func TestEmulator_Predefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"LD I, $(FONT_BASE + FONT_GLYPH_SIZE * 2)",
		"LD V0, $(SCREEN_WIDTH - 1)",
		"LD V1, 2",
		"LD F, V1",
	})

	assert.Equal([]uint8{0xA0, 0x5A, 0x60, 0x3F}, emu.Memory.Data[0x200:0x204])

	for range 4 {
		assert.NoError(emu.Tick())
	}
	assert.Equal(uint16(0x5A), emu.Registers.I)
	assert.Equal(uint8(63), emu.Registers.V[0])
}

func TestEmulator_Draw(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assemble(t, emu, []string{
		"LD V0, 0xF",
		"LD F, V0",
		"LD V1, 60",
		"LD V2, 0",
		"DRW V1, V2, 5",
	})

	for range 5 {
		assert.NoError(emu.Tick())
	}

	// Glyph F: 0xF0, 0x80, 0xF0, 0x80, 0x80; drawn at the right edge.
	assert.Equal(uint8(0), emu.Registers.V[0xF])
	assert.True(emu.Screen.Pixel(63, 0))
	assert.True(emu.Screen.Pixel(60, 4))
	assert.False(emu.Screen.Pixel(61, 4))
	assert.False(emu.Screen.Pixel(0, 0))
}

func TestEmulator_TickTimers(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	beeper := emu.Buzzer.(*io.Beeper)

	emu.Registers.SoundTimer = 2
	emu.Registers.DelayTimer = 1

	assert.True(emu.TickTimers())
	assert.True(beeper.On)
	assert.Equal(uint8(0), emu.Registers.DelayTimer)

	assert.False(emu.TickTimers())
	assert.False(beeper.On)
	assert.Equal(2, beeper.Changes)
}
