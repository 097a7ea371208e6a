package cpu

import (
	"fmt"
	"log"
	"strings"
)

// State of the execution engine.
type State int

//go:generate go tool stringer -linecomment -type=State,FaultKind
const (
	Running State = iota // running
	Halted               // halted
	Faulted              // faulted
)

// FaultKind identifies why a machine faulted.
type FaultKind int

const (
	FAULT_NONE    FaultKind = iota // none
	FAULT_OPCODE                   // invalid opcode
	FAULT_SYSCALL                  // syscall
)

// SyscallFn handles the SYSCALL instruction. The handler may read and
// mutate any machine state; a non-nil error faults the machine.
type SyscallFn func(m *Machine) error

// DefaultStackTop is the reset SP. PUSH decrements before storing, so
// the first pushed word lands at 0xFFFE.
const DefaultStackTop = 0xFFFF

// Machine is one S16 processor with its exclusively owned memory.
type Machine struct {
	Verbose bool // Set to enable instruction tracing.

	Reg   [8]uint16 // General registers; Reg[0] stays zero.
	PC    uint16
	SP    uint16
	Flags Flags

	Mem *Memory

	State    State
	Fault    FaultKind
	FaultErr error

	Syscall SyscallFn // Host SYSCALL handler; nil faults.

	Ticks int // Instructions executed since reset.
}

// NewMachine creates a machine in the Running state with clear memory,
// PC 0, and SP at the default top of stack.
func NewMachine() (m *Machine) {
	m = &Machine{
		SP:  DefaultStackTop,
		Mem: NewMemory(),
	}

	return
}

// Reset returns the machine to its power-on state. Memory is preserved;
// use Mem.Clear to drop a loaded image as well.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("s16: reset")
	}

	clear(m.Reg[:])
	m.PC = 0
	m.SP = DefaultStackTop
	m.Flags = Flags{}
	m.State = Running
	m.Fault = FAULT_NONE
	m.FaultErr = nil
	m.Ticks = 0
}

// String returns the register file state as a multi-line string.
func (m *Machine) String() string {
	var sb strings.Builder
	for n := range m.Reg {
		fmt.Fprintf(&sb, "   R%d: 0x%04X\n", n, m.GetReg(Reg(n)))
	}
	fmt.Fprintf(&sb, "   PC: 0x%04X\n", m.PC)
	fmt.Fprintf(&sb, "   SP: 0x%04X\n", m.SP)
	fmt.Fprintf(&sb, "FLAGS: %v\n", m.Flags)
	fmt.Fprintf(&sb, "STATE: %v\n", m.State)

	return sb.String()
}

// GetReg reads a general register; R0 reads as zero.
func (m *Machine) GetReg(r Reg) uint16 {
	if r == 0 {
		return 0
	}
	return m.Reg[r]
}

// SetReg writes a general register; writes to R0 are discarded.
func (m *Machine) SetReg(r Reg, value uint16) {
	if r == 0 {
		return
	}
	m.Reg[r] = value
}

func (m *Machine) fault(kind FaultKind, err error) error {
	m.State = Faulted
	m.Fault = kind
	m.FaultErr = err
	return err
}

// push stores one word below SP. SP is plain 16-bit arithmetic and
// wraps through 0x0000 without faulting.
func (m *Machine) push(value uint16) {
	m.SP--
	m.Mem.Write(m.SP, value)
}

// pop loads the word at SP and increments SP.
func (m *Machine) pop() (value uint16) {
	value = m.Mem.Read(m.SP)
	m.SP++
	return
}

// readSpec reads a special register through MOVS. PC reads as the
// address of the next instruction.
func (m *Machine) readSpec(spec Spec, addr uint16) uint16 {
	switch spec {
	case SPEC_PC:
		return addr + 1
	case SPEC_SP:
		return m.SP
	default:
		return m.Flags.Word()
	}
}

func (m *Machine) addFlags(a, b uint16) (result uint16) {
	result = a + b
	m.Flags.Z = result == 0
	m.Flags.N = result&0x8000 != 0
	m.Flags.C = uint32(a)+uint32(b) > 0xFFFF
	m.Flags.V = (a^b)&0x8000 == 0 && (a^result)&0x8000 != 0
	return
}

func (m *Machine) subFlags(a, b uint16) (result uint16) {
	result = a - b
	m.Flags.Z = result == 0
	m.Flags.N = result&0x8000 != 0
	m.Flags.C = b > a
	m.Flags.V = (a^b)&0x8000 != 0 && (a^result)&0x8000 != 0
	return
}

func (m *Machine) logicFlags(result uint16) {
	m.Flags.Z = result == 0
	m.Flags.N = result&0x8000 != 0
	m.Flags.C = false
	m.Flags.V = false
}

func (m *Machine) shiftFlags(result uint16, carry bool) {
	m.Flags.Z = result == 0
	m.Flags.N = result&0x8000 != 0
	m.Flags.C = carry
	m.Flags.V = false
}

// Step executes one fetch-decode-execute transition. Stepping a
// machine that is not Running is a no-op. A decode failure faults the
// machine before any state is touched, so the faulting step leaves
// registers, flags, and memory exactly as they were.
func (m *Machine) Step() (err error) {
	if m.State != Running {
		return
	}

	addr := m.PC
	word := m.Mem.Read(addr)

	in, err := Decode(word)
	if err != nil {
		return m.fault(FAULT_OPCODE, err)
	}

	if m.Verbose {
		log.Printf("s16: %04X: %-20v %v", addr, in, m.Flags)
	}

	jumped := false
	jump := func(target uint16) {
		m.PC = target
		jumped = true
	}
	taken := func() {
		jump(uint16(int32(addr) + int32(in.Off)))
	}

	switch in.Op {
	case OP_ADD:
		m.SetReg(in.Rd, m.addFlags(m.GetReg(in.Rs), m.GetReg(in.Rt)))
	case OP_SUB:
		m.SetReg(in.Rd, m.subFlags(m.GetReg(in.Rs), m.GetReg(in.Rt)))
	case OP_AND:
		result := m.GetReg(in.Rs) & m.GetReg(in.Rt)
		m.SetReg(in.Rd, result)
		m.logicFlags(result)
	case OP_OR:
		result := m.GetReg(in.Rs) | m.GetReg(in.Rt)
		m.SetReg(in.Rd, result)
		m.logicFlags(result)
	case OP_XOR:
		result := m.GetReg(in.Rs) ^ m.GetReg(in.Rt)
		m.SetReg(in.Rd, result)
		m.logicFlags(result)
	case OP_NOT:
		result := ^m.GetReg(in.Rs)
		m.SetReg(in.Rd, result)
		m.logicFlags(result)
	case OP_SLL, OP_SHR:
		value := m.GetReg(in.Rs)
		count := m.GetReg(in.Rt) & 0xF
		if count == 0 {
			// shift by zero moves the value and leaves flags alone
			m.SetReg(in.Rd, value)
			break
		}
		var result uint16
		var carry bool
		if in.Op == OP_SLL {
			result = value << count
			carry = (value>>(16-count))&1 != 0
		} else {
			result = value >> count
			carry = (value>>(count-1))&1 != 0
		}
		m.SetReg(in.Rd, result)
		m.shiftFlags(result, carry)

	case OP_LOADI:
		m.SetReg(in.Rd, m.Mem.Read(m.GetReg(in.Rs)))
	case OP_STOREI:
		m.Mem.Write(m.GetReg(in.Rs), m.GetReg(in.Rd))
	case OP_CMP:
		m.subFlags(m.GetReg(in.Rs), m.GetReg(in.Rt))
	case OP_RET:
		jump(m.pop())
	case OP_PUSH:
		m.push(m.GetReg(in.Rs))
	case OP_POP:
		m.SetReg(in.Rd, m.pop())

	case OP_LOAD:
		m.SetReg(in.Rt, m.Mem.Read(in.Addr()))
	case OP_STORE:
		m.Mem.Write(in.Addr(), m.GetReg(in.Rt))
	case OP_ADDI:
		m.SetReg(in.Rt, m.addFlags(m.GetReg(in.Rt), uint16(in.SignedImm())))
	case OP_ANDI:
		result := m.GetReg(in.Rt) & uint16(in.Imm)
		m.SetReg(in.Rt, result)
		m.logicFlags(result)
	case OP_ORI:
		result := m.GetReg(in.Rt) | uint16(in.Imm)
		m.SetReg(in.Rt, result)
		m.logicFlags(result)
	case OP_LUI:
		m.SetReg(in.Rt, uint16(in.Imm)<<8)
	case OP_CMPI:
		m.subFlags(m.GetReg(in.Rt), uint16(in.SignedImm()))

	case OP_CALL:
		m.push(addr + 1)
		taken()
	case OP_JMP:
		taken()
	case OP_JZ:
		if m.Flags.Z {
			taken()
		}
	case OP_JNZ:
		if !m.Flags.Z {
			taken()
		}
	case OP_JGT:
		if !m.Flags.Z && m.Flags.N == m.Flags.V {
			taken()
		}

	case OP_NOP:
		// pass
	case OP_RMOVS:
		m.SetReg(in.Rs, m.readSpec(in.Spec, addr))
	case OP_WMOVS:
		value := m.GetReg(in.Rs)
		switch in.Spec {
		case SPEC_PC:
			jump(value)
		case SPEC_SP:
			m.SP = value
		case SPEC_FLAGS:
			m.Flags.SetWord(value)
		}
	case OP_SYSCALL:
		if m.Syscall == nil {
			return m.fault(FAULT_SYSCALL, ErrSyscallUnhandled)
		}
		if err = m.Syscall(m); err != nil {
			return m.fault(FAULT_SYSCALL, err)
		}
	case OP_HALT:
		m.State = Halted
	}

	m.Ticks++

	if !jumped {
		if addr == MemWords-1 {
			// ran off the end of memory
			if m.State == Running {
				m.State = Halted
			}
		} else {
			m.PC = addr + 1
		}
	}

	return
}

// Run steps the machine until it leaves the Running state or, with a
// positive limit, until that many steps have executed. The returned
// error is the fault that stopped the run, if any.
func (m *Machine) Run(limit int) (err error) {
	for n := 0; m.State == Running; n++ {
		if limit > 0 && n >= limit {
			return
		}
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}
