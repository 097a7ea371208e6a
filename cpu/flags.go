package cpu

import "fmt"

// Flags is the processor condition word. Only bits 0-3 of the packed
// form are meaningful; writes through SetWord discard the rest.
type Flags struct {
	Z bool // zero
	C bool // carry out / borrow
	N bool // negative (bit 15 of the result)
	V bool // signed overflow
}

const (
	flagZ = uint16(1) << 0
	flagC = uint16(1) << 1
	flagN = uint16(1) << 2
	flagV = uint16(1) << 3
)

// Word packs the flags into bits 0-3 of a 16-bit word.
func (fl Flags) Word() (value uint16) {
	if fl.Z {
		value |= flagZ
	}
	if fl.C {
		value |= flagC
	}
	if fl.N {
		value |= flagN
	}
	if fl.V {
		value |= flagV
	}
	return
}

// SetWord unpacks bits 0-3; bits 4-15 are ignored.
func (fl *Flags) SetWord(value uint16) {
	fl.Z = value&flagZ != 0
	fl.C = value&flagC != 0
	fl.N = value&flagN != 0
	fl.V = value&flagV != 0
}

func (fl Flags) String() string {
	b := func(set bool) int {
		if set {
			return 1
		}
		return 0
	}
	return fmt.Sprintf("[Z:%d C:%d N:%d V:%d]", b(fl.Z), b(fl.C), b(fl.N), b(fl.V))
}
