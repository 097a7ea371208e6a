package cpu

import (
	"errors"

	"github.com/ezrec/s16/translate"
)

var f = translate.From

var (
	// Encode errors
	ErrRegisterInvalid = errors.New(f("register must be R0-R7"))
	ErrOperandInvalid  = errors.New(f("operand not valid for instruction"))

	// Machine errors
	ErrSyscallUnhandled = errors.New(f("no syscall handler installed"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLabelSyntax     = errors.New(f("label is not an identifier"))
	ErrOperandCount    = errors.New(f("wrong operand count"))

	// Image errors
	ErrImageSize = errors.New(f("image larger than memory"))
	ErrImageOdd  = errors.New(f("image has a trailing odd byte"))
)

// ErrDecode is the word of an instruction with no defined decoding.
type ErrDecode uint16

func (ed ErrDecode) Error() string {
	return f("invalid instruction word 0x%04x", uint16(ed))
}

func (ed ErrDecode) Is(err error) (ok bool) {
	_, ok = err.(ErrDecode)
	return
}

// ErrOffsetRange is a PC-relative offset outside the J-type range.
type ErrOffsetRange int

func (eo ErrOffsetRange) Error() string {
	return f("offset %d outside %d..%d", int(eo), OffsetMin, OffsetMax)
}

// ErrImmediateRange is an immediate outside the range its mnemonic accepts.
type ErrImmediateRange struct {
	Value    int64
	Min, Max int64
}

func (ei ErrImmediateRange) Error() string {
	return f("immediate %d outside %d..%d", ei.Value, ei.Min, ei.Max)
}

// ErrMnemonic is an unknown instruction mnemonic.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(em))
}

// ErrLabelMissing is a reference to a label that is never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrParseNumber is a malformed numeric literal.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseRegister is a malformed register name.
type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register R0-R7", string(err))
}

// ErrParseExpression is a malformed $() constant expression.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly-time error on its source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
