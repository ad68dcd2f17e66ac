package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/chip8/memory"
)

const (
	REGISTER_COUNT = 16                   // Number of general purpose registers.
	REGISTER_FLAG  = 0xF                  // Index of the flag register, VF.
	STACK_LIMIT    = 16                   // Maximum call stack depth.
	PC_RESET       = memory.PROGRAM_START // Program counter after reset.
)

// Registers is the architectural register file.
//
// Sp is the call depth: the stack holds Stack[0:Sp], and the most
// recently pushed return address is Stack[Sp-1].
type Registers struct {
	Pc    uint16                // Program counter.
	Sp    uint8                 // Call depth, 0 through STACK_LIMIT.
	Stack [STACK_LIMIT]uint16   // Return addresses.
	V     [REGISTER_COUNT]uint8 // V0 through VF.
	I     uint16                // Index register.

	DelayTimer uint8 // Decremented towards zero at 60Hz.
	SoundTimer uint8 // Tone sounds while non-zero.
}

// NewRegisters returns a register file in its reset state.
func NewRegisters() (regs *Registers) {
	regs = &Registers{}
	regs.Reset()
	return
}

// Reset zeros all registers, empties the stack and sets the program
// counter to PC_RESET.
func (regs *Registers) Reset() {
	*regs = Registers{Pc: PC_RESET}
}

// ReadV reads general purpose register Vi.
func (regs *Registers) ReadV(i uint8) uint8 {
	return regs.V[i&0xf]
}

// WriteV writes general purpose register Vi.
func (regs *Registers) WriteV(i uint8, value uint8) {
	regs.V[i&0xf] = value
}

// PushStack pushes a return address.
// The register file is unchanged on failure.
func (regs *Registers) PushStack(addr uint16) (err error) {
	if regs.Sp >= STACK_LIMIT {
		err = ErrStackOverflow
		return
	}

	regs.Stack[regs.Sp] = addr
	regs.Sp++
	return
}

// PeekStack returns the most recently pushed return address.
func (regs *Registers) PeekStack() (addr uint16, ok bool) {
	if regs.Sp == 0 {
		return
	}

	return regs.Stack[regs.Sp-1], true
}

// PopStack pops the most recent return address into the program counter.
// The register file is unchanged on failure.
func (regs *Registers) PopStack() (addr uint16, err error) {
	addr, ok := regs.PeekStack()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	regs.Sp--
	regs.Pc = addr
	return
}

// Dump captures the register file.
func (regs *Registers) Dump() RegisterSnapshot {
	return RegisterSnapshot(*regs)
}

// RegisterSnapshot is an immutable copy of the register file.
type RegisterSnapshot Registers

// String renders the register file for diagnostics.
func (snap RegisterSnapshot) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PC  0x%03X\n", snap.Pc)
	fmt.Fprintf(&sb, "SP  %d\n", snap.Sp)
	fmt.Fprintln(&sb, "stack:")
	for n := STACK_LIMIT - 1; n >= 0; n-- {
		marker := ' '
		if int(snap.Sp) == n+1 {
			marker = '>'
		}
		fmt.Fprintf(&sb, "  %c %2d 0x%03X\n", marker, n, snap.Stack[n])
	}
	fmt.Fprintln(&sb, "registers:")
	for n := 0; n < REGISTER_COUNT; n += 2 {
		fmt.Fprintf(&sb, "V%X  0x%02X    V%X  0x%02X\n", n, snap.V[n], n+1, snap.V[n+1])
	}
	fmt.Fprintf(&sb, "I   0x%03X\n", snap.I)
	fmt.Fprintf(&sb, "DT  0x%02X\n", snap.DelayTimer)
	fmt.Fprintf(&sb, "ST  0x%02X\n", snap.SoundTimer)

	return sb.String()
}
