// Package monitor is the interactive machine-language monitor: a raw
// terminal front end for single-stepping an S16 machine, inspecting
// registers, and listing disassembly.
package monitor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/s16/cpu"
	"github.com/ezrec/s16/emulator"
)

// RunLimit bounds the 'c' (continue) command so a looping program can
// be interrupted by the step budget rather than wedging the terminal.
const RunLimit = 10_000_000

// Monitor drives an emulator from a raw-mode terminal.
type Monitor struct {
	Emu *emulator.Emulator

	in  io.Reader
	out io.Writer
}

func NewMonitor(emu *emulator.Emulator) *Monitor {
	return &Monitor{
		Emu: emu,
		in:  os.Stdin,
		out: os.Stdout,
	}
}

// printf writes with CRLF line endings; the terminal is in raw mode.
func (mon *Monitor) printf(format string, args ...any) {
	s := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	for _, line := range strings.Split(s, "\n") {
		fmt.Fprint(mon.out, line, "\r\n")
	}
}

func (mon *Monitor) showRegisters() {
	mon.printf("%v", mon.Emu.Machine)
}

// showListing disassembles a window of memory around PC, marking the
// current instruction.
func (mon *Monitor) showListing() {
	m := mon.Emu.Machine

	base := m.PC
	if base >= 4 {
		base -= 4
	} else {
		base = 0
	}

	for n := 0; n < 12; n++ {
		addr := base + uint16(n)
		word := m.Mem.Read(addr)
		text := cpu.Disassemble([]uint16{word}, addr)

		for label, labelAddr := range mon.Emu.Program.Symbols {
			if labelAddr == addr {
				mon.printf("%v:", label)
			}
		}

		mark := "  "
		if addr == m.PC {
			mark = "=>"
		}
		mon.printf("%v %v", mark, text)
	}
}

func (mon *Monitor) step() {
	err := mon.Emu.Step()
	if err != nil {
		mon.printf("fault: %v", err)
		return
	}
	mon.showRegisters()
	if n := mon.Emu.LineNo(); n != 0 {
		mon.printf("next: line %d", n)
	}
}

func (mon *Monitor) cont() {
	done, err := mon.Emu.Run(RunLimit)
	if err != nil {
		mon.printf("fault: %v", err)
	} else if !done {
		mon.printf("paused after %v steps", RunLimit)
	}
	mon.showRegisters()
}

func (mon *Monitor) help() {
	mon.printf("s step    c continue    r registers")
	mon.printf("l list    x reset       q quit")
}

// Run puts the terminal into raw mode and processes single-key
// commands until 'q' or EOF. The terminal state is restored on return.
func (mon *Monitor) Run() (err error) {
	fd := int(os.Stdin.Fd())

	var oldState *term.State
	if term.IsTerminal(fd) {
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer term.Restore(fd, oldState)
	}

	mon.printf("s16 monitor; press ? for help")
	mon.showRegisters()

	buf := make([]byte, 1)
	for {
		if _, err = mon.in.Read(buf); err != nil {
			if err == io.EOF {
				err = nil
			}
			return
		}

		switch buf[0] {
		case 's', ' ':
			mon.step()
		case 'c':
			mon.cont()
		case 'r':
			mon.showRegisters()
		case 'l':
			mon.showListing()
		case 'x':
			mon.Emu.Reset()
			mon.showRegisters()
		case 'q', 0x03, 0x04: // q, ^C, ^D
			return
		case '?', 'h':
			mon.help()
		}
	}
}
