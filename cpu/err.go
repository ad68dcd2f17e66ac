package cpu

import (
	"errors"
	"strings"

	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackOverflow  = errors.New(f("stack overflow"))
	ErrStackUnderflow = errors.New(f("stack underflow"))
	ErrInvalidOpcode  = errors.New(f("invalid opcode"))
	ErrUnsupported    = errors.New(f("unsupported instruction"))
	ErrHalted         = errors.New(f("cpu halted"))
	ErrNotAwaiting    = errors.New(f("cpu not awaiting key"))

	// Assembler errors
	ErrEquateSyntax     = errors.New(f(".equ syntax"))
	ErrEquateDuplicate  = errors.New(f(".equ duplicated"))
	ErrEquateRecursive  = errors.New(f(".equ recursive"))
	ErrLabelDuplicate   = errors.New(f("label duplicated"))
	ErrLabelInvalid     = errors.New(f("label invalid"))
	ErrMnemonicInvalid  = errors.New(f("mnemonic invalid"))
	ErrOperandCount     = errors.New(f("wrong number of operands"))
	ErrOperandInvalid   = errors.New(f("operand invalid"))
	ErrOperandRange     = errors.New(f("operand out of range"))
	ErrProgramTooLarge  = errors.New(f("program too large"))
	ErrDirectiveInvalid = errors.New(f("directive invalid"))
)

// ErrOpcode reports an instruction word outside the instruction set.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("invalid opcode 0x%04X", uint16(eo))
}

func (eo ErrOpcode) Is(err error) bool {
	return err == ErrInvalidOpcode
}

// ErrSys reports a call to a native machine code routine (0nnn).
type ErrSys uint16

func (es ErrSys) Error() string {
	return f("unsupported machine code routine at 0x%03X", uint16(es))
}

func (es ErrSys) Is(err error) bool {
	return err == ErrUnsupported
}

// ErrHalt is returned by Cpu.Tick when an instruction faults. It carries
// the machine state at the moment of the fault.
type ErrHalt struct {
	Pc     uint16 // Address of the faulting instruction.
	Word   uint16 // Instruction word, if it could be fetched.
	Opcode Opcode // Decoded instruction, nil if the fetch failed.
	Err    error  // Underlying fault.

	Memory    memory.Snapshot
	Registers RegisterSnapshot
}

func (err *ErrHalt) Error() string {
	if err.Opcode == nil {
		return f("halt at 0x%03X: %v", err.Pc, err.Err)
	}
	return f("halt at 0x%03X [%04X] %v: %v", err.Pc, err.Word, err.Opcode, err.Err)
}

func (err *ErrHalt) Unwrap() error {
	return err.Err
}

// Diagnostic renders the register file followed by a hex dump of memory.
func (err *ErrHalt) Diagnostic() string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")
	sb.WriteString(err.Registers.String())
	sb.WriteString(err.Memory.String())
	return sb.String()
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
