// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator assembles the CHIP-8 processor, its memory and the
// headless collaborators into a runnable machine.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
)

const (
	CLOCK_HZ = 700 // Default instruction rate.
	TIMER_HZ = 60  // Delay and sound timer rate.
)

var _emulator_defines = map[string]string{
	"CLOCK_HZ":        fmt.Sprintf("%d", CLOCK_HZ),
	"TIMER_HZ":        fmt.Sprintf("%d", TIMER_HZ),
	"SCREEN_WIDTH":    fmt.Sprintf("%d", io.SCREEN_WIDTH),
	"SCREEN_HEIGHT":   fmt.Sprintf("%d", io.SCREEN_HEIGHT),
	"KEY_COUNT":       fmt.Sprintf("%d", io.KEY_COUNT),
	"FONT_GLYPH_SIZE": fmt.Sprintf("%d", io.FONT_GLYPH_SIZE),
}

// Emulator state. CPU + memory + collaborators.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded program, nil for raw ROMs.
	Rom      *io.Rom      // Program image loaded on reset.

	Screen    *io.Screen    // Display attached to the CPU.
	HexKeypad *io.HexKeypad // Keypad attached to the CPU.
	Buzzer    io.Buzzer     // Driven by the sound timer.

	ClockHz int // Instruction rate used by Run.

	// Pump, if set, is run alongside the machine by Run. It typically
	// feeds host input into the keypad, and must return once ctx is done.
	Pump func(ctx context.Context) error
}

// NewEmulator creates a new emulator with headless collaborators.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:       cpu.NewCpu(),
		Screen:    &io.Screen{},
		HexKeypad: io.NewHexKeypad(),
		Buzzer:    &io.Beeper{},
		ClockHz:   CLOCK_HZ,
	}

	emu.Cpu.Display = emu.Screen
	emu.Cpu.Keypad = emu.HexKeypad

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Memory.Defines(),
	)
}

// Assembler returns an assembler with the machine's defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Load a ROM image and reset the machine.
func (emu *Emulator) Load(rom *io.Rom) (err error) {
	err = rom.Check()
	if err != nil {
		return
	}

	emu.Rom = rom
	emu.Program = nil

	err = emu.Reset()
	return
}

// LoadProgram loads an assembled program, keeping its listing for
// runtime error reporting, and resets the machine.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	rom, err := prog.Rom("program")
	if err != nil {
		return
	}

	emu.Rom = rom
	emu.Program = prog

	err = emu.Reset()
	return
}

// Reset the machine: clear memory, install the font, reload the
// program image and restart the CPU at PROGRAM_START.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Verbose {
		log.Printf("emulator: reset")
	}

	// Leave the machine untouched if the image cannot be loaded.
	if emu.Rom != nil {
		err = emu.Rom.Check()
		if err != nil {
			return
		}
	}

	emu.Memory.Reset()

	err = emu.Memory.CopyBlock(memory.FONT_BASE, io.Font[:])
	if err != nil {
		return
	}

	if emu.Rom != nil {
		err = emu.Rom.LoadInto(emu.Memory)
		if err != nil {
			return
		}
	}

	emu.Cpu.Reset()
	emu.Display.Clear()
	emu.HexKeypad.Reset()
	emu.Buzzer.Tone(false)

	return
}

// LineNo returns the source line number of the instruction at pc, or
// zero if there is no listing for it.
func (emu *Emulator) LineNo(pc uint16) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction cycle of the emulator.
func (emu *Emulator) Tick() (err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo(emu.Registers.Pc)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()

	var halt *cpu.ErrHalt
	if emu.Verbose && errors.As(err, &halt) {
		log.Printf("emulator: %v", halt.Diagnostic())
	}

	return
}

// TickTimers performs one 60Hz timer step and updates the buzzer.
func (emu *Emulator) TickTimers() (sounding bool) {
	sounding = emu.Cpu.TickTimers()
	emu.Buzzer.Tone(sounding)

	return
}
