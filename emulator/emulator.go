// Package emulator couples an S16 machine with host-side devices and
// file plumbing: image load/save, a console SYSCALL device, and step
// limits for callers that own the run loop.
package emulator

import (
	"os"

	"github.com/ezrec/s16/cpu"
)

// Emulator state. Machine + console device + program listing.
type Emulator struct {
	Verbose bool // If set, enables instruction tracing.

	*cpu.Machine
	Program *cpu.Program // Listing for the currently loaded program, if assembled here.

	Console Console // Default SYSCALL host device.
}

// NewEmulator creates an emulator with the console installed as the
// machine's SYSCALL handler.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: cpu.NewMachine(),
		Program: &cpu.Program{},
	}

	emu.Machine.Syscall = emu.Console.Handle

	return
}

// LoadProgram clears memory, installs an assembled program at address
// 0, and resets the machine.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog
	return emu.LoadWords(0, prog.Words())
}

// LoadWords clears memory, copies an image to addr, and resets the
// machine with PC at the load address.
func (emu *Emulator) LoadWords(addr uint16, words []uint16) (err error) {
	emu.Machine.Mem.Clear()
	err = emu.Machine.Mem.Load(addr, words)
	if err != nil {
		return
	}

	emu.Machine.Reset()
	emu.Machine.PC = addr

	return
}

// LoadImageFile loads a little-endian binary image file at addr and
// returns the image words.
func (emu *Emulator) LoadImageFile(path string, addr uint16) (words []uint16, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	words, err = cpu.ReadImage(inf)
	if err != nil {
		return
	}

	err = emu.LoadWords(addr, words)
	return
}

// LineNo returns the source line for the instruction at PC, or 0 when
// no listing covers it.
func (emu *Emulator) LineNo() int {
	ent, ok := emu.Program.At(emu.Machine.PC)
	if !ok {
		return 0
	}
	return ent.LineNo
}

// Step performs a single machine step. Faults are wrapped with the
// address of the faulting instruction.
func (emu *Emulator) Step() (err error) {
	emu.Machine.Verbose = emu.Verbose

	addr := emu.Machine.PC
	err = emu.Machine.Step()
	if err != nil {
		err = &ErrRuntime{Addr: addr, Err: err}
	}

	return
}

// Run steps until the machine halts or faults, or a positive limit of
// steps has executed. Returns done=true when the machine left the
// Running state.
func (emu *Emulator) Run(limit int) (done bool, err error) {
	for n := 0; emu.Machine.State == cpu.Running; n++ {
		if limit > 0 && n >= limit {
			return
		}
		err = emu.Step()
		if err != nil {
			break
		}
	}

	done = emu.Machine.State != cpu.Running
	return
}
