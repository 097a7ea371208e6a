package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramImage(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"lui r1, 0x12",
		"ori r1, 0x34",
		"halt",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	assert.NoError(prog.WriteImage(&buf))

	// low byte first
	assert.Equal([]byte{0x12, 0x72, 0x34, 0x62, 0x00, 0xff}, buf.Bytes())

	words, err := ReadImage(&buf)
	assert.NoError(err)
	assert.Equal(prog.Words(), words)
}

func TestReadImageErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ReadImage(strings.NewReader("\x00"))
	assert.ErrorIs(err, ErrImageOdd)

	big := make([]byte, 2*MemWords+2)
	_, err = ReadImage(bytes.NewReader(big))
	assert.ErrorIs(err, ErrImageSize)
}

func TestMemoryLoad(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()
	assert.NoError(mem.Load(0xfffe, []uint16{1, 2}))
	assert.Equal(uint16(2), mem.Read(0xffff))

	assert.ErrorIs(mem.Load(0xffff, []uint16{1, 2}), ErrImageSize)
}

func TestProgramAt(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"top: nop",
		"halt",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	ent, ok := prog.At(1)
	assert.True(ok)
	assert.Equal(2, ent.LineNo)
	assert.Equal(OP_HALT, ent.Inst.Op)

	_, ok = prog.At(2)
	assert.False(ok)
}

func TestListing(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t,
		"addi r1, 1",
		"halt",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	listing := prog.Listing()
	assert.Contains(listing, "0x0000:")
	assert.Contains(listing, "ADDI R1, 1")
	assert.Contains(listing, "; line 2")
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	out := Disassemble([]uint16{0x7212, 0xff00, 0xe000}, 0x0100)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(3, len(lines))
	assert.Contains(lines[0], "0x0100:")
	assert.Contains(lines[0], "LUI R1, 0x12")
	assert.Contains(lines[1], "HALT")
	assert.Contains(lines[2], "; data")
}
