package cpu

import (
	"fmt"
	"strings"
)

// Reg indexes one of the eight general registers. Register 0 always
// reads as zero and discards writes.
type Reg uint16

func (r Reg) String() string { return fmt.Sprintf("R%d", uint16(r)) }

// Spec identifies a special register reachable through MOVS.
type Spec uint16

//go:generate go tool stringer -linecomment -type=Spec,Op
const (
	SPEC_PC    = Spec(0) // PC
	SPEC_SP    = Spec(1) // SP
	SPEC_FLAGS = Spec(2) // FLAGS
)

// Op tags a decoded instruction. The constants of each format block
// are ordered to match their funct or opcode assignment.
type Op int

const (
	OP_ADD Op = iota // ADD
	OP_SUB           // SUB
	OP_AND           // AND
	OP_OR            // OR
	OP_XOR           // XOR
	OP_NOT           // NOT
	OP_SLL           // SLL
	OP_SHR           // SHR

	OP_LOADI  // LOADI
	OP_STOREI // STOREI
	OP_CMP    // CMP
	OP_RET    // RET
	OP_PUSH   // PUSH
	OP_POP    // POP

	OP_LOAD  // LOAD
	OP_STORE // STORE
	OP_ADDI  // ADDI
	OP_ANDI  // ANDI
	OP_ORI   // ORI
	OP_LUI   // LUI
	OP_CMPI  // CMPI

	OP_CALL // CALL
	OP_JMP  // JMP
	OP_JZ   // JZ
	OP_JNZ  // JNZ
	OP_JGT  // JGT

	OP_NOP     // NOP
	OP_RMOVS   // MOVS
	OP_WMOVS   // MOVS
	OP_SYSCALL // SYSCALL
	OP_HALT    // HALT
)

// Inst is the abstract form of one instruction. Only the fields the
// Op uses are meaningful; the rest stay zero, and both Encode and
// Decode enforce that.
type Inst struct {
	Op   Op
	Rd   Reg   // R-type destination
	Rs   Reg   // R-type / E-type source
	Rt   Reg   // R-type source, I-type target
	Imm  uint8 // I-type immediate, raw byte
	Off  int16 // J-type signed offset
	Spec Spec  // MOVS special-register id
}

// SignedImm sign-extends the immediate byte (ADDI/CMPI view).
func (in Inst) SignedImm() int16 { return int16(int8(in.Imm)) }

// Addr zero-extends the immediate byte (LOAD/STORE zero-page view).
func (in Inst) Addr() uint16 { return uint16(in.Imm) }

type argSet uint8

const (
	argRd argSet = 1 << iota
	argRs
	argRt
	argImm
	argOff
	argSpec
)

var opArgs = map[Op]argSet{
	OP_ADD:     argRd | argRs | argRt,
	OP_SUB:     argRd | argRs | argRt,
	OP_AND:     argRd | argRs | argRt,
	OP_OR:      argRd | argRs | argRt,
	OP_XOR:     argRd | argRs | argRt,
	OP_NOT:     argRd | argRs,
	OP_SLL:     argRd | argRs | argRt,
	OP_SHR:     argRd | argRs | argRt,
	OP_LOADI:   argRd | argRs,
	OP_STOREI:  argRd | argRs,
	OP_CMP:     argRs | argRt,
	OP_RET:     0,
	OP_PUSH:    argRs,
	OP_POP:     argRd,
	OP_LOAD:    argRt | argImm,
	OP_STORE:   argRt | argImm,
	OP_ADDI:    argRt | argImm,
	OP_ANDI:    argRt | argImm,
	OP_ORI:     argRt | argImm,
	OP_LUI:     argRt | argImm,
	OP_CMPI:    argRt | argImm,
	OP_CALL:    argOff,
	OP_JMP:     argOff,
	OP_JZ:      argOff,
	OP_JNZ:     argOff,
	OP_JGT:     argOff,
	OP_NOP:     0,
	OP_RMOVS:   argRs | argSpec,
	OP_WMOVS:   argRs | argSpec,
	OP_SYSCALL: 0,
	OP_HALT:    0,
}

// fieldsValid reports whether every operand field the Op does not use
// is zero, and every field it does use is in range.
func (in Inst) fieldsValid() bool {
	args, ok := opArgs[in.Op]
	if !ok {
		return false
	}
	if args&argRd == 0 && in.Rd != 0 {
		return false
	}
	if args&argRs == 0 && in.Rs != 0 {
		return false
	}
	if args&argRt == 0 && in.Rt != 0 {
		return false
	}
	if args&argImm == 0 && in.Imm != 0 {
		return false
	}
	if args&argOff == 0 && in.Off != 0 {
		return false
	}
	if args&argSpec == 0 && in.Spec != 0 {
		return false
	}
	if args&argSpec != 0 && in.Spec > SPEC_FLAGS {
		return false
	}
	return true
}

// String renders the instruction as canonical assembly text.
func (in Inst) String() (out string) {
	switch in.Op {
	case OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR, OP_SLL, OP_SHR:
		out = fmt.Sprintf("%v %v, %v, %v", in.Op, in.Rd, in.Rs, in.Rt)
	case OP_NOT, OP_LOADI, OP_STOREI:
		out = fmt.Sprintf("%v %v, %v", in.Op, in.Rd, in.Rs)
	case OP_CMP:
		out = fmt.Sprintf("%v %v, %v", in.Op, in.Rs, in.Rt)
	case OP_PUSH:
		out = fmt.Sprintf("%v %v", in.Op, in.Rs)
	case OP_POP:
		out = fmt.Sprintf("%v %v", in.Op, in.Rd)
	case OP_ADDI, OP_CMPI:
		out = fmt.Sprintf("%v %v, %d", in.Op, in.Rt, in.SignedImm())
	case OP_LOAD, OP_STORE, OP_ANDI, OP_ORI, OP_LUI:
		out = fmt.Sprintf("%v %v, 0x%02X", in.Op, in.Rt, in.Imm)
	case OP_CALL, OP_JMP, OP_JZ, OP_JNZ, OP_JGT:
		out = fmt.Sprintf("%v %d", in.Op, in.Off)
	case OP_RMOVS:
		out = fmt.Sprintf("%v %v, %v", in.Op, in.Rs, in.Spec)
	case OP_WMOVS:
		out = fmt.Sprintf("%v %v, %v", in.Op, in.Spec, in.Rs)
	default:
		out = in.Op.String()
	}
	return
}

// Disassemble renders a memory image one instruction per line, with
// the word's address and raw encoding. Words that do not decode are
// kept in the listing as bare data.
func Disassemble(words []uint16, base uint16) string {
	var sb strings.Builder
	for n, word := range words {
		addr := base + uint16(n)
		in, err := Decode(word)
		if err != nil {
			fmt.Fprintf(&sb, "0x%04X: 0x%04X  ; data\n", addr, word)
			continue
		}
		fmt.Fprintf(&sb, "0x%04X: 0x%04X  %v\n", addr, word, in)
	}
	return sb.String()
}
