package cpu

import (
	"bufio"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler translates S16 assembly text into a Program. Each call to
// Parse runs the full two-pass translation: pass 1 assigns every
// instruction its word address and collects label definitions, pass 2
// resolves label references to PC-relative offsets and encodes.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]uint16 // Symbol table, built in pass 1.
	Equate map[string]string // Map of equates.

	predefine map[string]string
	entries   []Entry
}

// Predefine defines an equate visible to every Parse call.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
var exprRe = regexp.MustCompile(`\$\([^)]*\)`)

// parenEval does assembly-time $(...) evaluations. Integer-valued
// equates are visible to the expression.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, verr := strconv.ParseInt(str, 0, 64)
		if verr != nil {
			// Non-integer equates may be registers or labels.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// currentAddr is the address of the next instruction: one word per
// instruction, no padding.
func (asm *Assembler) currentAddr() uint16 {
	return uint16(len(asm.entries))
}

// Parse assembles an input stream into a Program. Any error aborts
// assembly with no program produced, wrapped in an ErrSyntax carrying
// the offending source line.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.Label = make(map[string]uint16, 16)
	asm.entries = asm.entries[:0]
	asm.Equate = maps.Clone(asm.predefine)
	if asm.Equate == nil {
		asm.Equate = make(map[string]string)
	}

	// Pass 1: addresses, labels, instruction parse.
	var lineno int
	for scanner.Scan() {
		lineno += 1
		text := scanner.Text()

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := text
		if cut := strings.IndexByte(line, '#'); cut >= 0 {
			line = line[:cut]
		}
		line = strings.TrimSpace(line)

		err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	// Pass 2: resolve label references against the symbol table and
	// encode every instruction.
	for n := range asm.entries {
		ent := &asm.entries[n]

		if len(ent.Label) != 0 {
			target, ok := asm.Label[ent.Label]
			if !ok {
				err = ErrSyntax{LineNo: ent.LineNo, Line: ent.Source, Err: ErrLabelMissing(ent.Label)}
				return
			}
			// Offsets are relative to the instruction's own address.
			off := int(target) - int(ent.Addr)
			if off < OffsetMin || off > OffsetMax {
				err = ErrSyntax{LineNo: ent.LineNo, Line: ent.Source, Err: ErrOffsetRange(off)}
				return
			}
			ent.Inst.Off = int16(off)
		}

		ent.Word, err = ent.Inst.Encode()
		if err != nil {
			err = ErrSyntax{LineNo: ent.LineNo, Line: ent.Source, Err: err}
			return
		}
	}

	prog = &Program{
		Entries: slices.Clone(asm.entries),
		Symbols: maps.Clone(asm.Label),
	}

	return
}

// parseLine handles one comment-stripped source line.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	// $() evaluations
	line = exprRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		return
	}

	words := strings.Fields(line)

	// Label definitions, possibly several on one line.
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !identRe.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		if _, ok := asm.Label[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if _, ok := asm.Equate[words[1]]; ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		return
	}

	mnemonic := strings.ToUpper(words[0])

	var args []string
	if len(words) > 1 {
		for _, arg := range strings.Split(strings.Join(words[1:], " "), ",") {
			arg = strings.TrimSpace(arg)
			// Equate substitution
			if equate, ok := asm.Equate[arg]; ok {
				arg = equate
			}
			args = append(args, arg)
		}
	}

	in, label, err := asm.parseInst(mnemonic, args)
	if err != nil {
		return
	}

	source := line
	asm.entries = append(asm.entries, Entry{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Source: source,
		Label:  label,
		Inst:   in,
	})

	return
}

// Register-register mnemonics with Rd, Rs, Rt operands.
var rrrMap = map[string]Op{
	"ADD": OP_ADD,
	"SUB": OP_SUB,
	"AND": OP_AND,
	"OR":  OP_OR,
	"XOR": OP_XOR,
	"SLL": OP_SLL,
	"SHR": OP_SHR,
}

// Immediate mnemonics with Rt and a sign-extended immediate.
var signedImmMap = map[string]Op{
	"ADDI": OP_ADDI,
	"CMPI": OP_CMPI,
}

// Immediate mnemonics with Rt and a zero-extended immediate.
var byteImmMap = map[string]Op{
	"LOAD":  OP_LOAD,
	"STORE": OP_STORE,
	"ANDI":  OP_ANDI,
	"ORI":   OP_ORI,
	"LUI":   OP_LUI,
}

// Jump mnemonics with a label or numeric offset operand.
var jumpMap = map[string]Op{
	"CALL": OP_CALL,
	"JMP":  OP_JMP,
	"JZ":   OP_JZ,
	"JNZ":  OP_JNZ,
	"JGT":  OP_JGT,
}

// Mnemonics with no operands.
var bareMap = map[string]Op{
	"RET":     OP_RET,
	"NOP":     OP_NOP,
	"SYSCALL": OP_SYSCALL,
	"HALT":    OP_HALT,
}

var specMap = map[string]Spec{
	"PC":    SPEC_PC,
	"SP":    SPEC_SP,
	"FLAGS": SPEC_FLAGS,
}

// parseReg parses a general register name R0-R7.
func parseReg(word string) (r Reg, err error) {
	name := strings.ToUpper(word)
	if len(name) == 2 && name[0] == 'R' && name[1] >= '0' && name[1] <= '7' {
		r = Reg(name[1] - '0')
		return
	}
	err = ErrParseRegister(word)
	return
}

// parseValue parses a decimal or 0x-prefixed hex literal.
func parseValue(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// immByte range-checks an immediate and returns its raw byte.
func immByte(value, min, max int64) (b uint8, err error) {
	if value < min || value > max {
		err = ErrImmediateRange{Value: value, Min: min, Max: max}
		return
	}
	b = uint8(value & 0xFF)
	return
}

// parseInst builds the abstract instruction for one mnemonic. A jump
// to a label returns the label name for pass 2 to resolve.
func (asm *Assembler) parseInst(mnemonic string, args []string) (in Inst, label string, err error) {
	if op, ok := rrrMap[mnemonic]; ok {
		if len(args) != 3 {
			err = ErrOperandCount
			return
		}
		in.Op = op
		if in.Rd, err = parseReg(args[0]); err != nil {
			return
		}
		if in.Rs, err = parseReg(args[1]); err != nil {
			return
		}
		in.Rt, err = parseReg(args[2])
		return
	}

	if op, ok := signedImmMap[mnemonic]; ok {
		in, err = asm.immInst(op, args, -128, 127)
		return
	}
	if op, ok := byteImmMap[mnemonic]; ok {
		in, err = asm.immInst(op, args, 0, 255)
		return
	}

	if op, ok := jumpMap[mnemonic]; ok {
		if len(args) != 1 {
			err = ErrOperandCount
			return
		}
		in.Op = op
		if identRe.MatchString(args[0]) {
			label = args[0]
			return
		}
		var value int64
		if value, err = parseValue(args[0]); err != nil {
			return
		}
		if value < OffsetMin || value > OffsetMax {
			err = ErrOffsetRange(value)
			return
		}
		in.Off = int16(value)
		return
	}

	if op, ok := bareMap[mnemonic]; ok {
		if len(args) != 0 {
			err = ErrOperandCount
			return
		}
		in.Op = op
		return
	}

	switch mnemonic {
	case "NOT", "LOADI", "STOREI":
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		switch mnemonic {
		case "NOT":
			in.Op = OP_NOT
		case "LOADI":
			in.Op = OP_LOADI
		case "STOREI":
			in.Op = OP_STOREI
		}
		if in.Rd, err = parseReg(args[0]); err != nil {
			return
		}
		in.Rs, err = parseReg(args[1])
		return

	case "CMP":
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		in.Op = OP_CMP
		if in.Rs, err = parseReg(args[0]); err != nil {
			return
		}
		in.Rt, err = parseReg(args[1])
		return

	case "PUSH":
		if len(args) != 1 {
			err = ErrOperandCount
			return
		}
		in.Op = OP_PUSH
		in.Rs, err = parseReg(args[0])
		return

	case "POP":
		if len(args) != 1 {
			err = ErrOperandCount
			return
		}
		in.Op = OP_POP
		in.Rd, err = parseReg(args[0])
		return

	case "MOVS":
		if len(args) != 2 {
			err = ErrOperandCount
			return
		}
		// Direction follows which operand names a special register.
		if spec, ok := specMap[strings.ToUpper(args[0])]; ok {
			in.Op = OP_WMOVS
			in.Spec = spec
			in.Rs, err = parseReg(args[1])
			return
		}
		if spec, ok := specMap[strings.ToUpper(args[1])]; ok {
			in.Op = OP_RMOVS
			in.Spec = spec
			in.Rs, err = parseReg(args[0])
			return
		}
		err = ErrOperandInvalid
		return
	}

	err = ErrMnemonic(mnemonic)
	return
}

// immInst parses "MNEMONIC Rt, imm".
func (asm *Assembler) immInst(op Op, args []string, min, max int64) (in Inst, err error) {
	if len(args) != 2 {
		err = ErrOperandCount
		return
	}
	in.Op = op
	if in.Rt, err = parseReg(args[0]); err != nil {
		return
	}
	var value int64
	if value, err = parseValue(args[1]); err != nil {
		return
	}
	in.Imm, err = immByte(value, min, max)
	return
}
