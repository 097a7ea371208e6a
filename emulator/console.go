package emulator

import (
	"errors"
	"io"

	"github.com/ezrec/s16/cpu"
)

// Console SYSCALL operation selectors, read from R1. The ISA leaves
// SYSCALL semantics to the host; this is the host this emulator
// supplies by default.
const (
	SYS_EXIT = 0 // request halt
	SYS_PUTC = 1 // write low byte of R2 to Output
	SYS_GETC = 2 // read one byte into R2, 0xFFFF on end of input
)

// Console is a byte-stream SYSCALL device over host reader/writer.
type Console struct {
	Input  io.Reader // Byte source for SYS_GETC; nil reads as end of input.
	Output io.Writer // Byte sink for SYS_PUTC; nil discards.
}

// Handle services one SYSCALL. An unknown selector is reported as a
// fault; the machine never guesses.
func (con *Console) Handle(m *cpu.Machine) (err error) {
	switch op := m.GetReg(1); op {
	case SYS_EXIT:
		m.State = cpu.Halted

	case SYS_PUTC:
		out := con.Output
		if out == nil {
			out = io.Discard
		}
		_, err = out.Write([]byte{byte(m.GetReg(2))})

	case SYS_GETC:
		value := uint16(0xFFFF)
		if con.Input != nil {
			var buf [1]byte
			n, rerr := con.Input.Read(buf[:])
			if n > 0 {
				value = uint16(buf[0])
			} else if rerr != nil && !errors.Is(rerr, io.EOF) {
				err = rerr
				return
			}
		}
		m.SetReg(2, value)

	default:
		err = ErrSyscallOp(op)
	}

	return
}
