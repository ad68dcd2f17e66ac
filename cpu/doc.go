// Package cpu implements the CHIP-8 processor core and its assembler.
//
// The core consists of a register file (sixteen 8-bit registers V0-VF,
// a 16-bit index register I, a program counter, a 16-deep call stack and
// the delay and sound timers), an opcode decoder covering the 35
// instructions of the original interpreter, and an execution engine which
// applies one decoded instruction to the register file and memory.
//
// Cpu.Tick is the cycle driver: fetch, decode and execute one instruction.
// Any fault halts the processor and reports an ErrHalt carrying the
// faulting program counter and snapshots of memory and registers.
//
// The assembler accepts the conventional CHIP-8 mnemonics, with labels,
// equates, data directives and compile-time expression evaluation.
package cpu
