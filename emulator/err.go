package emulator

import (
	"github.com/ezrec/s16/translate"
)

var f = translate.From

// ErrRuntime locates a runtime fault at its program address.
type ErrRuntime struct {
	Addr uint16
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("at 0x%04x: %v", err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrSyscallOp is an unrecognized console syscall selector.
type ErrSyscallOp uint16

func (err ErrSyscallOp) Error() string {
	return f("unknown syscall %d", uint16(err))
}
