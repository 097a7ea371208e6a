package cpu

import (
	"fmt"
	"io"
	"strings"
)

// Entry is one assembled instruction with its source location.
type Entry struct {
	LineNo int    // Source line number.
	Addr   uint16 // Program word address.
	Source string // Comment-stripped source text.
	Label  string // Unresolved jump target, empty when none.
	Inst   Inst   // Abstract instruction, offsets resolved.
	Word   uint16 // Encoded instruction word.
}

// Program is the assembler output: the encoded image plus the listing
// information the monitor and language server use.
type Program struct {
	Entries []Entry
	Symbols map[string]uint16
}

// Words returns the binary image, one word per instruction in program
// order starting at address 0.
func (prog *Program) Words() (words []uint16) {
	words = make([]uint16, len(prog.Entries))
	for n, ent := range prog.Entries {
		words[n] = ent.Word
	}
	return
}

// WriteImage serializes the program image little-endian.
func (prog *Program) WriteImage(w io.Writer) error {
	return WriteImage(w, prog.Words())
}

// At finds the entry assembled at a program address.
func (prog *Program) At(addr uint16) (ent *Entry, ok bool) {
	if int(addr) >= len(prog.Entries) {
		return
	}
	ent = &prog.Entries[addr]
	ok = ent.Addr == addr
	return
}

// Listing renders the assembled program with addresses and encodings.
func (prog *Program) Listing() string {
	var sb strings.Builder
	for _, ent := range prog.Entries {
		fmt.Fprintf(&sb, "0x%04X: 0x%04X  %-24v ; line %d\n",
			ent.Addr, ent.Word, ent.Inst, ent.LineNo)
	}
	return sb.String()
}
