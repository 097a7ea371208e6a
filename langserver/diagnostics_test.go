package langserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticsClean(t *testing.T) {
	assert := assert.New(t)

	diags := assembleDiagnostics("start: addi r1, 1\njmp start\n")
	assert.Equal(0, len(diags))
}

func TestDiagnosticsError(t *testing.T) {
	assert := assert.New(t)

	diags := assembleDiagnostics("nop\nfrobnicate r1, r2\nhalt\n")
	if !assert.Equal(1, len(diags)) {
		return
	}

	// zero-based line, spanning the whole source line
	assert.Equal(1, diags[0].Range.Start.Line)
	assert.Equal(1, diags[0].Range.End.Line)
	assert.Equal(0, diags[0].Range.Start.Character)
	assert.Equal(len("frobnicate r1, r2"), diags[0].Range.End.Character)
	assert.Equal(1, diags[0].Severity)
	assert.Contains(diags[0].Message, "FROBNICATE")
}

func TestDiagnosticsMissingLabel(t *testing.T) {
	assert := assert.New(t)

	diags := assembleDiagnostics("jmp nowhere\n")
	if !assert.Equal(1, len(diags)) {
		return
	}
	assert.Equal(0, diags[0].Range.Start.Line)
	assert.Contains(diags[0].Message, "nowhere")
}

func TestHover(t *testing.T) {
	assert := assert.New(t)

	text := "loop: addi r1, -1\n      jnz loop\n"

	md, ok := hoverFor(text, TextPosition{Line: 0, Character: 8})
	assert.True(ok)
	assert.Contains(md, "ADDI")

	md, ok = hoverFor(text, TextPosition{Line: 1, Character: 7})
	assert.True(ok)
	assert.Contains(md, "JNZ")

	// a label is not a mnemonic
	_, ok = hoverFor(text, TextPosition{Line: 0, Character: 2})
	assert.False(ok)

	// out of range positions do not panic
	_, ok = hoverFor(text, TextPosition{Line: 9, Character: 0})
	assert.False(ok)
}

func TestHoverStackOrder(t *testing.T) {
	assert := assert.New(t)

	text := "push r1\npop r2\nstore r3, 0x10\n"

	md, ok := hoverFor(text, TextPosition{Line: 0, Character: 1})
	assert.True(ok)
	assert.Contains(md, "SP = SP - 1; memory[SP] = Rs")

	md, ok = hoverFor(text, TextPosition{Line: 1, Character: 1})
	assert.True(ok)
	assert.Contains(md, "Rd = memory[SP]; SP = SP + 1")

	md, ok = hoverFor(text, TextPosition{Line: 2, Character: 1})
	assert.True(ok)
	assert.Contains(md, "memory[imm] = Rt")
}
