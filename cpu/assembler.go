// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/memory"
)

const (
	EQUATE_DEPTH = 16 // Maximum equate substitution depth.
)

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	reRegister   = regexp.MustCompile(`^[Vv][0-9A-Fa-f]$`)
	reParenEval  = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a two pass assembler for the CHIP-8 instruction set.
//
// The first pass assigns addresses to labels and collects equates, the
// second pass encodes each line, so labels may be used before they
// are defined.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// argKind classifies an instruction operand.
type argKind int

const (
	ARG_VALUE argKind = iota
	ARG_V
	ARG_I
	ARG_I_INDIRECT
	ARG_DT
	ARG_ST
	ARG_K
	ARG_F
	ARG_B
)

var argKindName = [...]string{"n", "V", "I", "[I]", "DT", "ST", "K", "F", "B"}

var argKeyword = map[string]argKind{
	"I":   ARG_I,
	"[I]": ARG_I_INDIRECT,
	"DT":  ARG_DT,
	"ST":  ARG_ST,
	"K":   ARG_K,
	"F":   ARG_F,
	"B":   ARG_B,
}

type arg struct {
	Kind  argKind
	Value int
}

var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "SYS": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "LD": true, "ADD": true, "OR": true,
	"AND": true, "XOR": true, "SUB": true, "SHR": true, "SUBN": true,
	"SHL": true, "RND": true, "DRW": true, "SKP": true, "SKNP": true,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 3 && word[0] == '\'' && word[2] == '\'' {
		value = int(word[1])
		return
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err == nil {
		value = int(v64)
		return
	}
	err = nil

	addr, ok := asm.Label[word]
	if ok {
		value = addr
		return
	}

	if reIdentifier.MatchString(word) {
		err = ErrLabelMissing(word)
	} else {
		err = ErrParseValue(word)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	for key := range asm.Equate {
		str, _err := asm.resolve(key)
		if _err != nil {
			continue
		}
		var v int
		v, _err = asm.valueOf(str)
		if _err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// resolve substitutes equates for a word until it no longer names one.
func (asm *Assembler) resolve(word string) (value string, err error) {
	value = word
	for range EQUATE_DEPTH {
		equate, ok := asm.Equate[value]
		if !ok {
			return
		}
		value = equate
	}

	err = ErrEquateRecursive
	return
}

// expand resolves equates and $(...) expressions in an operand.
func (asm *Assembler) expand(word string) (value string, err error) {
	value, err = asm.resolve(word)
	if err != nil {
		return
	}

	value = reParenEval.ReplaceAllStringFunc(value, func(str string) string {
		v, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", v)
	})

	return
}

// operand parses a single instruction operand.
func (asm *Assembler) operand(word string) (a arg, err error) {
	word, err = asm.expand(word)
	if err != nil {
		return
	}

	upper := strings.ToUpper(word)
	if kind, ok := argKeyword[upper]; ok {
		a.Kind = kind
		return
	}

	if reRegister.MatchString(word) {
		var v uint64
		v, err = strconv.ParseUint(word[1:], 16, 8)
		a = arg{Kind: ARG_V, Value: int(v)}
		return
	}

	a.Kind = ARG_VALUE
	a.Value, err = asm.valueOf(word)
	return
}

// isCharLiteral reports whether a 'c' character literal starts at text[n].
func isCharLiteral(text string, n int) bool {
	return text[n] == '\'' && n+2 < len(text) && text[n+2] == '\''
}

// cutComment removes a trailing ';' comment, ignoring quoted characters.
func cutComment(text string) string {
	for n := 0; n < len(text); n++ {
		switch {
		case isCharLiteral(text, n):
			n += 2
		case text[n] == ';':
			return text[:n]
		}
	}
	return text
}

// splitOperands splits an operand list on commas outside of parentheses
// and character literals.
func splitOperands(text string) (words []string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	depth := 0
	start := 0
	for n := 0; n < len(text); n++ {
		switch c := text[n]; {
		case isCharLiteral(text, n):
			n += 2
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			words = append(words, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}
	words = append(words, strings.TrimSpace(text[start:]))

	return
}

// cutWord splits the first whitespace delimited word from a line.
func cutWord(line string) (word string, rest string) {
	line = strings.TrimSpace(line)
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	return line[:n], strings.TrimSpace(line[n:])
}

// parseLine handles labels and equates on a line, returning the mnemonic
// and operands of any remaining statement.
func (asm *Assembler) parseLine(line string, addr int) (words []string, err error) {
	for {
		word, rest := cutWord(line)
		if !strings.HasSuffix(word, ":") {
			break
		}
		label := word[:len(word)-1]
		if !reIdentifier.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = addr
		line = rest
	}

	mnemonic, rest := cutWord(line)
	if len(mnemonic) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(mnemonic) == ".equ" {
		name, value := cutWord(rest)
		if !reIdentifier.MatchString(name) || len(value) == 0 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[name]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[name] = value
		return
	}

	words = append([]string{mnemonic}, splitOperands(rest)...)
	return
}

// sizeOf returns the size in bytes of an assembled statement.
func sizeOf(words []string) int {
	switch strings.ToLower(words[0]) {
	case ".db":
		return len(words) - 1
	case ".dw":
		return 2 * (len(words) - 1)
	}
	return INSTRUCTION_SIZE
}

// Parse parses an input stream into a Program loaded at PROGRAM_START.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Equate = make(map[string]string, len(asm.predefine))
	maps.Copy(asm.Equate, asm.predefine)

	var lines []Line
	addr := memory.PROGRAM_START

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(cutComment(text))

		var words []string
		words, err = asm.parseLine(line, addr)
		if err != nil {
			return
		}
		if len(words) == 0 {
			continue
		}

		lines = append(lines, Line{LineNo: lineno, Addr: addr, Words: words})
		addr += sizeOf(words)
		if addr > memory.MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	for n := range lines {
		ln := &lines[n]
		lineno = ln.LineNo
		line = strings.Join(ln.Words, " ")

		err = asm.encode(ln)
		if err != nil {
			return
		}
	}

	prog = &Program{Lines: lines}

	return
}

// encode assembles the words of a line into its data bytes.
func (asm *Assembler) encode(ln *Line) (err error) {
	mnemonic := strings.ToUpper(ln.Words[0])
	words := ln.Words[1:]

	switch mnemonic {
	case ".DB":
		for _, word := range words {
			var a arg
			a, err = asm.operand(word)
			if err != nil {
				return
			}
			if a.Kind != ARG_VALUE {
				err = ErrOperandInvalid
				return
			}
			if a.Value < -0x80 || a.Value > 0xff {
				err = ErrOperandRange
				return
			}
			ln.Data = append(ln.Data, uint8(a.Value))
		}
		return
	case ".DW":
		for _, word := range words {
			var a arg
			a, err = asm.operand(word)
			if err != nil {
				return
			}
			if a.Kind != ARG_VALUE {
				err = ErrOperandInvalid
				return
			}
			if a.Value < -0x8000 || a.Value > 0xffff {
				err = ErrOperandRange
				return
			}
			ln.Data = append(ln.Data, uint8(a.Value>>8), uint8(a.Value))
		}
		return
	}

	if strings.HasPrefix(mnemonic, ".") {
		err = ErrDirectiveInvalid
		return
	}

	args := make([]arg, 0, len(words))
	for _, word := range words {
		var a arg
		a, err = asm.operand(word)
		if err != nil {
			return
		}
		args = append(args, a)
	}

	op, err := assemble(mnemonic, args)
	if err != nil {
		return
	}

	word := op.Word()
	ln.Opcode = op
	ln.Data = []uint8{uint8(word >> 8), uint8(word)}

	return
}

// assemble selects the opcode for a mnemonic and its operands.
func assemble(mnemonic string, args []arg) (op Opcode, err error) {
	if !mnemonics[mnemonic] {
		err = ErrMnemonicInvalid
		return
	}

	sig := []string{mnemonic}
	for _, a := range args {
		sig = append(sig, argKindName[a.Kind])
	}

	value := func(n int, limit int) int {
		v := args[n].Value
		if v < 0 && limit == 0xff && v >= -0x80 {
			v &= 0xff
		}
		if v < 0 || v > limit {
			err = ErrOperandRange
		}
		return v
	}
	nnn := func(n int) uint16 { return uint16(value(n, 0xfff)) }
	kk := func(n int) uint8 { return uint8(value(n, 0xff)) }
	reg := func(n int) uint8 { return uint8(args[n].Value) }

	switch strings.Join(sig, " ") {
	case "CLS":
		op = ClearScreen{}
	case "RET":
		op = Return{}
	case "SYS n":
		op = Sys{N: nnn(0)}
	case "JP n":
		op = Jump{N: nnn(0)}
	case "JP V n":
		if reg(0) != 0 {
			err = ErrOperandInvalid
			return
		}
		op = JumpOffset{N: nnn(1)}
	case "CALL n":
		op = Call{N: nnn(0)}
	case "SE V n":
		op = SkipEqualImmediate{X: reg(0), K: kk(1)}
	case "SE V V":
		op = SkipEqual{X: reg(0), Y: reg(1)}
	case "SNE V n":
		op = SkipNotEqualImmediate{X: reg(0), K: kk(1)}
	case "SNE V V":
		op = SkipNotEqual{X: reg(0), Y: reg(1)}
	case "LD V n":
		op = LoadImmediate{X: reg(0), K: kk(1)}
	case "LD V V":
		op = Move{X: reg(0), Y: reg(1)}
	case "LD I n":
		op = LoadIndex{N: nnn(1)}
	case "LD V DT":
		op = LoadDelay{X: reg(0)}
	case "LD V K":
		op = WaitKey{X: reg(0)}
	case "LD DT V":
		op = SetDelay{X: reg(1)}
	case "LD ST V":
		op = SetSound{X: reg(1)}
	case "LD F V":
		op = LoadFont{X: reg(1)}
	case "LD B V":
		op = StoreBCD{X: reg(1)}
	case "LD [I] V":
		op = StoreRegisters{X: reg(1)}
	case "LD V [I]":
		op = LoadRegisters{X: reg(0)}
	case "ADD V n":
		op = AddImmediate{X: reg(0), K: kk(1)}
	case "ADD V V":
		op = Add{X: reg(0), Y: reg(1)}
	case "ADD I V":
		op = AddIndex{X: reg(1)}
	case "OR V V":
		op = Or{X: reg(0), Y: reg(1)}
	case "AND V V":
		op = And{X: reg(0), Y: reg(1)}
	case "XOR V V":
		op = Xor{X: reg(0), Y: reg(1)}
	case "SUB V V":
		op = Sub{X: reg(0), Y: reg(1)}
	case "SUBN V V":
		op = SubReverse{X: reg(0), Y: reg(1)}
	case "SHR V":
		op = ShiftRight{X: reg(0), Y: reg(0)}
	case "SHR V V":
		op = ShiftRight{X: reg(0), Y: reg(1)}
	case "SHL V":
		op = ShiftLeft{X: reg(0), Y: reg(0)}
	case "SHL V V":
		op = ShiftLeft{X: reg(0), Y: reg(1)}
	case "RND V n":
		op = Random{X: reg(0), K: kk(1)}
	case "DRW V V n":
		op = Draw{X: reg(0), Y: reg(1), N: uint8(value(2, 0xf))}
	case "SKP V":
		op = SkipKeyDown{X: reg(0)}
	case "SKNP V":
		op = SkipKeyUp{X: reg(0)}
	default:
		err = ErrOperandInvalid
	}

	if err != nil {
		op = nil
	}

	return
}
