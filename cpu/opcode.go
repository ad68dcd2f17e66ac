package cpu

import (
	"fmt"
)

// Opcode is a decoded CHIP-8 instruction. The set of opcodes is closed:
// every implementation is declared in this file, and each carries only
// the operand fields its instruction uses.
type Opcode interface {
	// Word re-encodes the opcode into its instruction word.
	Word() uint16
	// String returns the assembly language form of the opcode.
	String() string

	opcode()
}

type (
	Sys                   struct{ N uint16 }      // 0nnn - SYS addr
	ClearScreen           struct{}                // 00E0 - CLS
	Return                struct{}                // 00EE - RET
	Jump                  struct{ N uint16 }      // 1nnn - JP addr
	Call                  struct{ N uint16 }      // 2nnn - CALL addr
	SkipEqualImmediate    struct{ X, K uint8 }    // 3xkk - SE Vx, byte
	SkipNotEqualImmediate struct{ X, K uint8 }    // 4xkk - SNE Vx, byte
	SkipEqual             struct{ X, Y uint8 }    // 5xy0 - SE Vx, Vy
	LoadImmediate         struct{ X, K uint8 }    // 6xkk - LD Vx, byte
	AddImmediate          struct{ X, K uint8 }    // 7xkk - ADD Vx, byte
	Move                  struct{ X, Y uint8 }    // 8xy0 - LD Vx, Vy
	Or                    struct{ X, Y uint8 }    // 8xy1 - OR Vx, Vy
	And                   struct{ X, Y uint8 }    // 8xy2 - AND Vx, Vy
	Xor                   struct{ X, Y uint8 }    // 8xy3 - XOR Vx, Vy
	Add                   struct{ X, Y uint8 }    // 8xy4 - ADD Vx, Vy
	Sub                   struct{ X, Y uint8 }    // 8xy5 - SUB Vx, Vy
	ShiftRight            struct{ X, Y uint8 }    // 8xy6 - SHR Vx, Vy
	SubReverse            struct{ X, Y uint8 }    // 8xy7 - SUBN Vx, Vy
	ShiftLeft             struct{ X, Y uint8 }    // 8xyE - SHL Vx, Vy
	SkipNotEqual          struct{ X, Y uint8 }    // 9xy0 - SNE Vx, Vy
	LoadIndex             struct{ N uint16 }      // Annn - LD I, addr
	JumpOffset            struct{ N uint16 }      // Bnnn - JP V0, addr
	Random                struct{ X, K uint8 }    // Cxkk - RND Vx, byte
	Draw                  struct{ X, Y, N uint8 } // Dxyn - DRW Vx, Vy, nibble
	SkipKeyDown           struct{ X uint8 }       // Ex9E - SKP Vx
	SkipKeyUp             struct{ X uint8 }       // ExA1 - SKNP Vx
	LoadDelay             struct{ X uint8 }       // Fx07 - LD Vx, DT
	WaitKey               struct{ X uint8 }       // Fx0A - LD Vx, K
	SetDelay              struct{ X uint8 }       // Fx15 - LD DT, Vx
	SetSound              struct{ X uint8 }       // Fx18 - LD ST, Vx
	AddIndex              struct{ X uint8 }       // Fx1E - ADD I, Vx
	LoadFont              struct{ X uint8 }       // Fx29 - LD F, Vx
	StoreBCD              struct{ X uint8 }       // Fx33 - LD B, Vx
	StoreRegisters        struct{ X uint8 }       // Fx55 - LD [I], Vx
	LoadRegisters         struct{ X uint8 }       // Fx65 - LD Vx, [I]
	Invalid               struct{ Code uint16 }   // Any word not listed above.
)

// Decode maps an instruction word to its opcode. Decode never fails:
// words outside the instruction set decode to Invalid.
func Decode(word uint16) Opcode {
	switch word {
	case 0x00E0:
		return ClearScreen{}
	case 0x00EE:
		return Return{}
	}

	n := word & 0x0fff
	x := uint8((word >> 8) & 0xf)
	y := uint8((word >> 4) & 0xf)
	k := uint8(word & 0xff)

	switch word >> 12 {
	case 0x0:
		return Sys{N: n}
	case 0x1:
		return Jump{N: n}
	case 0x2:
		return Call{N: n}
	case 0x3:
		return SkipEqualImmediate{X: x, K: k}
	case 0x4:
		return SkipNotEqualImmediate{X: x, K: k}
	case 0x5:
		if word&0xf == 0x0 {
			return SkipEqual{X: x, Y: y}
		}
	case 0x6:
		return LoadImmediate{X: x, K: k}
	case 0x7:
		return AddImmediate{X: x, K: k}
	case 0x8:
		switch word & 0xf {
		case 0x0:
			return Move{X: x, Y: y}
		case 0x1:
			return Or{X: x, Y: y}
		case 0x2:
			return And{X: x, Y: y}
		case 0x3:
			return Xor{X: x, Y: y}
		case 0x4:
			return Add{X: x, Y: y}
		case 0x5:
			return Sub{X: x, Y: y}
		case 0x6:
			return ShiftRight{X: x, Y: y}
		case 0x7:
			return SubReverse{X: x, Y: y}
		case 0xE:
			return ShiftLeft{X: x, Y: y}
		}
	case 0x9:
		if word&0xf == 0x0 {
			return SkipNotEqual{X: x, Y: y}
		}
	case 0xA:
		return LoadIndex{N: n}
	case 0xB:
		return JumpOffset{N: n}
	case 0xC:
		return Random{X: x, K: k}
	case 0xD:
		return Draw{X: x, Y: y, N: uint8(word & 0xf)}
	case 0xE:
		switch k {
		case 0x9E:
			return SkipKeyDown{X: x}
		case 0xA1:
			return SkipKeyUp{X: x}
		}
	case 0xF:
		switch k {
		case 0x07:
			return LoadDelay{X: x}
		case 0x0A:
			return WaitKey{X: x}
		case 0x15:
			return SetDelay{X: x}
		case 0x18:
			return SetSound{X: x}
		case 0x1E:
			return AddIndex{X: x}
		case 0x29:
			return LoadFont{X: x}
		case 0x33:
			return StoreBCD{X: x}
		case 0x55:
			return StoreRegisters{X: x}
		case 0x65:
			return LoadRegisters{X: x}
		}
	}

	return Invalid{Code: word}
}

// Instruction word layouts.
func wordN(top, n uint16) uint16 {
	return (top << 12) | (n & 0x0fff)
}

func wordXK(top uint16, x, k uint8) uint16 {
	return (top << 12) | (uint16(x&0xf) << 8) | uint16(k)
}

func wordXYN(top uint16, x, y, n uint8) uint16 {
	return (top << 12) | (uint16(x&0xf) << 8) | (uint16(y&0xf) << 4) | uint16(n&0xf)
}

func (op Sys) Word() uint16 { return wordN(0x0, op.N) }
func (op ClearScreen) Word() uint16 { return 0x00E0 }
func (op Return) Word() uint16 { return 0x00EE }
func (op Jump) Word() uint16 { return wordN(0x1, op.N) }
func (op Call) Word() uint16 { return wordN(0x2, op.N) }
func (op SkipEqualImmediate) Word() uint16 { return wordXK(0x3, op.X, op.K) }
func (op SkipNotEqualImmediate) Word() uint16 { return wordXK(0x4, op.X, op.K) }
func (op SkipEqual) Word() uint16 { return wordXYN(0x5, op.X, op.Y, 0x0) }
func (op LoadImmediate) Word() uint16 { return wordXK(0x6, op.X, op.K) }
func (op AddImmediate) Word() uint16 { return wordXK(0x7, op.X, op.K) }
func (op Move) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x0) }
func (op Or) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x1) }
func (op And) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x2) }
func (op Xor) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x3) }
func (op Add) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x4) }
func (op Sub) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x5) }
func (op ShiftRight) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x6) }
func (op SubReverse) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0x7) }
func (op ShiftLeft) Word() uint16 { return wordXYN(0x8, op.X, op.Y, 0xE) }
func (op SkipNotEqual) Word() uint16 { return wordXYN(0x9, op.X, op.Y, 0x0) }
func (op LoadIndex) Word() uint16 { return wordN(0xA, op.N) }
func (op JumpOffset) Word() uint16 { return wordN(0xB, op.N) }
func (op Random) Word() uint16 { return wordXK(0xC, op.X, op.K) }
func (op Draw) Word() uint16 { return wordXYN(0xD, op.X, op.Y, op.N) }
func (op SkipKeyDown) Word() uint16 { return wordXK(0xE, op.X, 0x9E) }
func (op SkipKeyUp) Word() uint16 { return wordXK(0xE, op.X, 0xA1) }
func (op LoadDelay) Word() uint16 { return wordXK(0xF, op.X, 0x07) }
func (op WaitKey) Word() uint16 { return wordXK(0xF, op.X, 0x0A) }
func (op SetDelay) Word() uint16 { return wordXK(0xF, op.X, 0x15) }
func (op SetSound) Word() uint16 { return wordXK(0xF, op.X, 0x18) }
func (op AddIndex) Word() uint16 { return wordXK(0xF, op.X, 0x1E) }
func (op LoadFont) Word() uint16 { return wordXK(0xF, op.X, 0x29) }
func (op StoreBCD) Word() uint16 { return wordXK(0xF, op.X, 0x33) }
func (op StoreRegisters) Word() uint16 { return wordXK(0xF, op.X, 0x55) }
func (op LoadRegisters) Word() uint16 { return wordXK(0xF, op.X, 0x65) }
func (op Invalid) Word() uint16 { return op.Code }

func (op Sys) String() string { return fmt.Sprintf("SYS 0x%03X", op.N&0xfff) }
func (op ClearScreen) String() string { return "CLS" }
func (op Return) String() string { return "RET" }
func (op Jump) String() string { return fmt.Sprintf("JP 0x%03X", op.N&0xfff) }
func (op Call) String() string { return fmt.Sprintf("CALL 0x%03X", op.N&0xfff) }
func (op SkipEqualImmediate) String() string {
	return fmt.Sprintf("SE V%X, 0x%02X", op.X&0xf, op.K)
}
func (op SkipNotEqualImmediate) String() string {
	return fmt.Sprintf("SNE V%X, 0x%02X", op.X&0xf, op.K)
}
func (op SkipEqual) String() string { return fmtXY("SE", op.X, op.Y) }
func (op LoadImmediate) String() string { return fmt.Sprintf("LD V%X, 0x%02X", op.X&0xf, op.K) }
func (op AddImmediate) String() string { return fmt.Sprintf("ADD V%X, 0x%02X", op.X&0xf, op.K) }
func (op Move) String() string { return fmtXY("LD", op.X, op.Y) }
func (op Or) String() string { return fmtXY("OR", op.X, op.Y) }
func (op And) String() string { return fmtXY("AND", op.X, op.Y) }
func (op Xor) String() string { return fmtXY("XOR", op.X, op.Y) }
func (op Add) String() string { return fmtXY("ADD", op.X, op.Y) }
func (op Sub) String() string { return fmtXY("SUB", op.X, op.Y) }
func (op ShiftRight) String() string { return fmtXY("SHR", op.X, op.Y) }
func (op SubReverse) String() string { return fmtXY("SUBN", op.X, op.Y) }
func (op ShiftLeft) String() string { return fmtXY("SHL", op.X, op.Y) }
func (op SkipNotEqual) String() string { return fmtXY("SNE", op.X, op.Y) }
func (op LoadIndex) String() string { return fmt.Sprintf("LD I, 0x%03X", op.N&0xfff) }
func (op JumpOffset) String() string { return fmt.Sprintf("JP V0, 0x%03X", op.N&0xfff) }
func (op Random) String() string { return fmt.Sprintf("RND V%X, 0x%02X", op.X&0xf, op.K) }
func (op Draw) String() string {
	return fmt.Sprintf("DRW V%X, V%X, %d", op.X&0xf, op.Y&0xf, op.N&0xf)
}
func (op SkipKeyDown) String() string { return fmt.Sprintf("SKP V%X", op.X&0xf) }
func (op SkipKeyUp) String() string { return fmt.Sprintf("SKNP V%X", op.X&0xf) }
func (op LoadDelay) String() string { return fmt.Sprintf("LD V%X, DT", op.X&0xf) }
func (op WaitKey) String() string { return fmt.Sprintf("LD V%X, K", op.X&0xf) }
func (op SetDelay) String() string { return fmt.Sprintf("LD DT, V%X", op.X&0xf) }
func (op SetSound) String() string { return fmt.Sprintf("LD ST, V%X", op.X&0xf) }
func (op AddIndex) String() string { return fmt.Sprintf("ADD I, V%X", op.X&0xf) }
func (op LoadFont) String() string { return fmt.Sprintf("LD F, V%X", op.X&0xf) }
func (op StoreBCD) String() string { return fmt.Sprintf("LD B, V%X", op.X&0xf) }
func (op StoreRegisters) String() string { return fmt.Sprintf("LD [I], V%X", op.X&0xf) }
func (op LoadRegisters) String() string { return fmt.Sprintf("LD V%X, [I]", op.X&0xf) }
func (op Invalid) String() string { return fmt.Sprintf(".dw 0x%04X", op.Code) }

func fmtXY(mnemonic string, x, y uint8) string {
	return fmt.Sprintf("%v V%X, V%X", mnemonic, x&0xf, y&0xf)
}

func (Sys) opcode() {}
func (ClearScreen) opcode() {}
func (Return) opcode() {}
func (Jump) opcode() {}
func (Call) opcode() {}
func (SkipEqualImmediate) opcode() {}
func (SkipNotEqualImmediate) opcode() {}
func (SkipEqual) opcode() {}
func (LoadImmediate) opcode() {}
func (AddImmediate) opcode() {}
func (Move) opcode() {}
func (Or) opcode() {}
func (And) opcode() {}
func (Xor) opcode() {}
func (Add) opcode() {}
func (Sub) opcode() {}
func (ShiftRight) opcode() {}
func (SubReverse) opcode() {}
func (ShiftLeft) opcode() {}
func (SkipNotEqual) opcode() {}
func (LoadIndex) opcode() {}
func (JumpOffset) opcode() {}
func (Random) opcode() {}
func (Draw) opcode() {}
func (SkipKeyDown) opcode() {}
func (SkipKeyUp) opcode() {}
func (LoadDelay) opcode() {}
func (WaitKey) opcode() {}
func (SetDelay) opcode() {}
func (SetSound) opcode() {}
func (AddIndex) opcode() {}
func (LoadFont) opcode() {}
func (StoreBCD) opcode() {}
func (StoreRegisters) opcode() {}
func (LoadRegisters) opcode() {}
func (Invalid) opcode() {}
