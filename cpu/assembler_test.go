package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, lines ...string) (*Program, error) {
	t.Helper()

	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestAssemblerEmpty(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"",
		"# a comment",
		"   # an indented comment",
	)
	assert.NoError(err)
	assert.Equal(0, len(prog.Entries))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"start:",
		"  lui r1, 0x12     # upper byte",
		"  ori R1, 0x34",
		"  add r2, r1, r1",
		"  halt",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Inst{
		{Op: OP_LUI, Rt: 1, Imm: 0x12},
		{Op: OP_ORI, Rt: 1, Imm: 0x34},
		{Op: OP_ADD, Rd: 2, Rs: 1, Rt: 1},
		{Op: OP_HALT},
	}

	assert.Equal(len(expected), len(prog.Entries))
	for n, in := range expected {
		assert.Equal(in, prog.Entries[n].Inst, in.String())
		word, werr := in.Encode()
		assert.NoError(werr)
		assert.Equal(word, prog.Entries[n].Word, in.String())
	}

	assert.Equal(uint16(0), prog.Symbols["start"])
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"     addi r1, 5",   // 0
		"loop: addi r1, -1", // 1
		"     jnz loop",     // 2: off -1
		"     jmp done",     // 3: off +2
		"     nop",          // 4
		"done: halt",        // 5
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(int16(-1), prog.Entries[2].Inst.Off)
	assert.Equal(int16(2), prog.Entries[3].Inst.Off)
	assert.Equal(uint16(1), prog.Symbols["loop"])
	assert.Equal(uint16(5), prog.Symbols["done"])
}

func TestAssemblerOperands(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"movs r1, sp",
		"movs pc, r2",
		"movs r3, flags",
		"push r4",
		"pop r5",
		"cmp r1, r2",
		"not r1, r2",
		"loadi r1, r2",
		"storei r1, r2",
		"jmp -4",
		"ret",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Inst{
		{Op: OP_RMOVS, Rs: 1, Spec: SPEC_SP},
		{Op: OP_WMOVS, Rs: 2, Spec: SPEC_PC},
		{Op: OP_RMOVS, Rs: 3, Spec: SPEC_FLAGS},
		{Op: OP_PUSH, Rs: 4},
		{Op: OP_POP, Rd: 5},
		{Op: OP_CMP, Rs: 1, Rt: 2},
		{Op: OP_NOT, Rd: 1, Rs: 2},
		{Op: OP_LOADI, Rd: 1, Rs: 2},
		{Op: OP_STOREI, Rd: 1, Rs: 2},
		{Op: OP_JMP, Off: -4},
		{Op: OP_RET},
	}

	assert.Equal(len(expected), len(prog.Entries))
	for n, in := range expected {
		assert.Equal(in, prog.Entries[n].Inst, in.String())
	}
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		".equ COUNT 5",
		".equ ACC r1",
		"  addi ACC, COUNT",
		"  cmpi ACC, $(COUNT * 2 - 3)",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Inst{
		{Op: OP_ADDI, Rt: 1, Imm: 5},
		{Op: OP_CMPI, Rt: 1, Imm: 7},
	}

	assert.Equal(len(expected), len(prog.Entries))
	for n, in := range expected {
		assert.Equal(in, prog.Entries[n].Inst, in.String())
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x40")

	prog, err := asm.Parse(strings.NewReader("load r1, BASE"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(Inst{Op: OP_LOAD, Rt: 1, Imm: 0x40}, prog.Entries[0].Inst)

	// predefines survive a re-Parse
	prog, err = asm.Parse(strings.NewReader("store r2, BASE"))
	assert.NoError(err)
	assert.Equal(Inst{Op: OP_STORE, Rt: 2, Imm: 0x40}, prog.Entries[0].Inst)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		lineno int
		want   error
	}){
		{"mnemonic", []string{"nop", "frobnicate r1"}, 2, ErrMnemonic("FROBNICATE")},
		{"register", []string{"add r1, r8, r2"}, 1, ErrParseRegister("r8")},
		{"operands", []string{"add r1, r2"}, 1, ErrOperandCount},
		{"imm_high", []string{"addi r1, 128"}, 1, ErrImmediateRange{Value: 128, Min: -128, Max: 127}},
		{"imm_low", []string{"nop", "nop", "andi r1, -1"}, 3, ErrImmediateRange{Value: -1, Min: 0, Max: 255}},
		{"number", []string{"addi r1, fifteen"}, 1, ErrParseNumber("fifteen")},
		{"label_dup", []string{"a: nop", "a: nop"}, 2, ErrLabelDuplicate},
		{"label_missing", []string{"jmp nowhere"}, 1, ErrLabelMissing("nowhere")},
		{"label_syntax", []string{"9a: nop"}, 1, ErrLabelSyntax},
		{"equ_dup", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"equ_args", []string{".equ A"}, 1, ErrEquateSyntax},
		{"movs_no_spec", []string{"movs r1, r2"}, 1, ErrOperandInvalid},
		{"expr", []string{"addi r1, $(1 +)"}, 1, ErrParseExpression("1 +")},
	}

	for _, entry := range table {
		_, err := parse(t, entry.lines...)
		assert.ErrorIs(err, entry.want, entry.name)

		var serr ErrSyntax
		if assert.True(errors.As(err, &serr), entry.name) {
			assert.Equal(entry.lineno, serr.LineNo, entry.name)
		}
	}
}

func TestAssemblerOffsetRange(t *testing.T) {
	assert := assert.New(t)

	// a backward jump 2049 words away overflows the 12-bit offset
	lines := []string{"far: nop"}
	for n := 0; n < 2048; n++ {
		lines = append(lines, "nop")
	}
	lines = append(lines, "jmp far")

	_, err := parse(t, lines...)
	assert.ErrorIs(err, ErrOffsetRange(-2049))

	var serr ErrSyntax
	if assert.True(errors.As(err, &serr)) {
		assert.Equal(len(lines), serr.LineNo)
	}

	// one word closer fits
	lines = append(lines[:len(lines)-2], "jmp far")
	_, err = parse(t, lines...)
	assert.NoError(err)
}
