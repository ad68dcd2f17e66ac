package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
)

const (
	INSTRUCTION_SIZE = 2 // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT":   fmt.Sprintf("%d", REGISTER_COUNT),
	"REGISTER_FLAG":    fmt.Sprintf("%#x", REGISTER_FLAG),
	"STACK_LIMIT":      fmt.Sprintf("%d", STACK_LIMIT),
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", INSTRUCTION_SIZE),
}

// Cpu is the simulation context for the CHIP-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory    *memory.Memory // Memory the program executes from.
	Registers Registers      // Architectural register file.

	Display io.Display // Framebuffer collaborator.
	Keypad  io.Keypad  // Keypad collaborator.
	Random  io.Random  // Random byte source for RND.

	State State // Cycle driver state.
	Ticks int   // Instructions retired since reset.

	waitRegister uint8 // Destination of a pending LD Vx, K.
}

// NewCpu creates a new CPU with fresh memory and headless collaborators.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory:  memory.NewMemory(),
		Display: &io.Screen{},
		Keypad:  io.NewHexKeypad(),
		Random:  io.NewSeededRandom(time.Now().UnixNano()),
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the register file and return to the running state.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.State = STATE_RUNNING
	cpu.Ticks = 0
	cpu.waitRegister = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "state: %v\n", cpu.State)
	if cpu.State == STATE_AWAITING_KEY {
		fmt.Fprintf(&sb, "key:   V%X\n", cpu.waitRegister)
	}
	sb.WriteString(cpu.Registers.Dump().String())
	return sb.String()
}

// WaitRegister returns the register that will receive the next key
// while the CPU is awaiting a key.
func (cpu *Cpu) WaitRegister() (x uint8, ok bool) {
	if cpu.State != STATE_AWAITING_KEY {
		return
	}

	return cpu.waitRegister, true
}

// checkTarget verifies that a control transfer lands on a fetchable word.
func checkTarget(addr uint16) (err error) {
	if int(addr)+INSTRUCTION_SIZE > memory.MEMORY_SIZE {
		err = &memory.ErrAddress{From: int(addr), To: int(addr) + INSTRUCTION_SIZE}
	}
	return
}

func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}

// Execute applies a single decoded instruction.
//
// Sequential instructions advance the program counter by one word, skips
// advance it by two words when their condition holds, and control
// transfers set it explicitly. On error the register file and memory
// are unchanged. A halted CPU executes nothing until Reset.
func (cpu *Cpu) Execute(op Opcode) (err error) {
	regs := &cpu.Registers
	mem := cpu.Memory

	if cpu.State == STATE_HALTED {
		err = ErrHalted
		return
	}

	if op == nil {
		err = ErrInvalidOpcode
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %03X: %04X %v", regs.Pc, op.Word(), op)
	}

	next_pc := regs.Pc + INSTRUCTION_SIZE

	switch op := op.(type) {
	case Sys:
		err = ErrSys(op.N)
	case ClearScreen:
		cpu.Display.Clear()
	case Return:
		addr, ok := regs.PeekStack()
		if !ok {
			err = ErrStackUnderflow
			return
		}
		err = checkTarget(addr)
		if err != nil {
			return
		}
		next_pc, err = regs.PopStack()
	case Jump:
		err = checkTarget(op.N)
		next_pc = op.N
	case Call:
		err = checkTarget(op.N)
		if err != nil {
			return
		}
		err = regs.PushStack(next_pc)
		next_pc = op.N
	case SkipEqualImmediate:
		if regs.ReadV(op.X) == op.K {
			next_pc += INSTRUCTION_SIZE
		}
	case SkipNotEqualImmediate:
		if regs.ReadV(op.X) != op.K {
			next_pc += INSTRUCTION_SIZE
		}
	case SkipEqual:
		if regs.ReadV(op.X) == regs.ReadV(op.Y) {
			next_pc += INSTRUCTION_SIZE
		}
	case LoadImmediate:
		regs.WriteV(op.X, op.K)
	case AddImmediate:
		regs.WriteV(op.X, regs.ReadV(op.X)+op.K)
	case Move:
		regs.WriteV(op.X, regs.ReadV(op.Y))
	case Or:
		regs.WriteV(op.X, regs.ReadV(op.X)|regs.ReadV(op.Y))
	case And:
		regs.WriteV(op.X, regs.ReadV(op.X)&regs.ReadV(op.Y))
	case Xor:
		regs.WriteV(op.X, regs.ReadV(op.X)^regs.ReadV(op.Y))
	case Add:
		// VF is always written last, so it holds the flag even when
		// it is also the destination.
		vx, vy := regs.ReadV(op.X), regs.ReadV(op.Y)
		sum := uint16(vx) + uint16(vy)
		regs.WriteV(op.X, uint8(sum))
		regs.WriteV(REGISTER_FLAG, uint8(sum>>8))
	case Sub:
		vx, vy := regs.ReadV(op.X), regs.ReadV(op.Y)
		regs.WriteV(op.X, vx-vy)
		regs.WriteV(REGISTER_FLAG, flag(vx >= vy))
	case ShiftRight:
		vx := regs.ReadV(op.X)
		regs.WriteV(op.X, vx>>1)
		regs.WriteV(REGISTER_FLAG, vx&1)
	case SubReverse:
		vx, vy := regs.ReadV(op.X), regs.ReadV(op.Y)
		regs.WriteV(op.X, vy-vx)
		regs.WriteV(REGISTER_FLAG, flag(vy >= vx))
	case ShiftLeft:
		vx := regs.ReadV(op.X)
		regs.WriteV(op.X, vx<<1)
		regs.WriteV(REGISTER_FLAG, vx>>7)
	case SkipNotEqual:
		if regs.ReadV(op.X) != regs.ReadV(op.Y) {
			next_pc += INSTRUCTION_SIZE
		}
	case LoadIndex:
		regs.I = op.N & 0xfff
	case JumpOffset:
		target := (op.N & 0xfff) + uint16(regs.ReadV(0))
		err = checkTarget(target)
		next_pc = target
	case Random:
		regs.WriteV(op.X, cpu.Random.NextByte()&op.K)
	case Draw:
		var sprite []uint8
		sprite, err = mem.ReadRange(regs.I, regs.I+uint16(op.N&0xf))
		if err != nil {
			return
		}
		collided := cpu.Display.DrawSprite(regs.ReadV(op.X), regs.ReadV(op.Y), slices.Clone(sprite))
		regs.WriteV(REGISTER_FLAG, flag(collided))
	case SkipKeyDown:
		if cpu.Keypad.IsKeyDown(regs.ReadV(op.X) & 0xf) {
			next_pc += INSTRUCTION_SIZE
		}
	case SkipKeyUp:
		if !cpu.Keypad.IsKeyDown(regs.ReadV(op.X) & 0xf) {
			next_pc += INSTRUCTION_SIZE
		}
	case LoadDelay:
		regs.WriteV(op.X, regs.DelayTimer)
	case WaitKey:
		// The program counter stays on this instruction until Resume.
		cpu.State = STATE_AWAITING_KEY
		cpu.waitRegister = op.X & 0xf
		next_pc = regs.Pc
	case SetDelay:
		regs.DelayTimer = regs.ReadV(op.X)
	case SetSound:
		regs.SoundTimer = regs.ReadV(op.X)
	case AddIndex:
		regs.I += uint16(regs.ReadV(op.X))
	case LoadFont:
		regs.I = memory.FONT_BASE + uint16(regs.ReadV(op.X))*io.FONT_GLYPH_SIZE
	case StoreBCD:
		vx := regs.ReadV(op.X)
		err = mem.CopyBlock(regs.I, []uint8{vx / 100, (vx / 10) % 10, vx % 10})
	case StoreRegisters:
		err = mem.CopyBlock(regs.I, regs.V[:int(op.X&0xf)+1])
	case LoadRegisters:
		var view []uint8
		view, err = mem.ReadRange(regs.I, regs.I+uint16(op.X&0xf)+1)
		if err != nil {
			return
		}
		copy(regs.V[:], view)
	case Invalid:
		err = ErrOpcode(op.Code)
	default:
		err = ErrOpcode(op.Word())
	}

	if err != nil {
		return
	}

	regs.Pc = next_pc
	cpu.Ticks++

	return
}

// Tick performs one fetch, decode and execute cycle.
//
// While awaiting a key Tick does nothing. Once halted, Tick returns
// ErrHalted. Any fault during the cycle halts the CPU and is returned
// as an *ErrHalt.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		err = ErrHalted
		return
	case STATE_AWAITING_KEY:
		return
	}

	pc := cpu.Registers.Pc

	word, err := cpu.Memory.ReadWord(pc)
	if err != nil {
		err = cpu.halt(pc, word, nil, err)
		return
	}

	op := Decode(word)
	err = cpu.Execute(op)
	if err != nil {
		err = cpu.halt(pc, word, op, err)
		return
	}

	return
}

// halt enters the halted state and captures the machine for diagnostics.
func (cpu *Cpu) halt(pc uint16, word uint16, op Opcode, cause error) error {
	cpu.State = STATE_HALTED

	eh := &ErrHalt{
		Pc:        pc,
		Word:      word,
		Opcode:    op,
		Err:       cause,
		Memory:    cpu.Memory.Dump(),
		Registers: cpu.Registers.Dump(),
	}

	if cpu.Verbose {
		log.Printf("cpu: %v", eh)
	}

	return eh
}

// Resume completes a pending LD Vx, K by storing key in Vx and
// advancing past the waiting instruction.
func (cpu *Cpu) Resume(key uint8) (err error) {
	if cpu.State != STATE_AWAITING_KEY {
		err = ErrNotAwaiting
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: key %X -> V%X", key&0xf, cpu.waitRegister)
	}

	cpu.Registers.WriteV(cpu.waitRegister, key&0xf)
	cpu.Registers.Pc += INSTRUCTION_SIZE
	cpu.State = STATE_RUNNING

	return
}

// TickTimers decrements the delay and sound timers towards zero, and
// reports whether the tone should be sounding.
func (cpu *Cpu) TickTimers() (sounding bool) {
	regs := &cpu.Registers

	if regs.DelayTimer > 0 {
		regs.DelayTimer--
	}
	if regs.SoundTimer > 0 {
		regs.SoundTimer--
	}

	sounding = regs.SoundTimer > 0
	return
}
