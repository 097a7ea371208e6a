package cpu

// Field layout of the four instruction formats.
//
//	R-type: [15:12]=opcode   [11:9]=Rd      [8:6]=Rs  [5:3]=Rt    [2:0]=funct
//	I-type: [15:12]=opcode   [11:9]=Rt      [8]=0     [7:0]=immediate
//	J-type: [15:12]=opcode   [11:0]=offset (signed)
//	E-type: [15:12]=0xF      [11:8]=subcode [7:5]=Rs  [4:3]=spec  [2:0]=0
const (
	opcodeShift = 12
	rdShift     = 9
	rsShift     = 6
	rtShift     = 3

	regMask    = 0x7
	functMask  = 0x0007
	immMask    = 0x00ff
	immZero    = 0x0100 // I-type bit 8, must be clear
	offsetMask = 0x0fff

	subShift   = 8
	subMask    = 0xf
	eRsShift   = 5
	eSpecShift = 3
	eSpecMask  = 0x3
	eLowMask   = 0x0007
)

// Primary opcodes.
const (
	opcodeAlu  = 0x0 // R-type arithmetic/logical/shift
	opcodeMem  = 0x1 // R-type memory-indirect/compare/stack
	opcodeLoad = 0x2
	opcodeStor = 0x3
	opcodeAddi = 0x4
	opcodeAndi = 0x5
	opcodeOri  = 0x6
	opcodeLui  = 0x7
	opcodeCmpi = 0x8
	opcodeCall = 0x9
	opcodeJmp  = 0xa
	opcodeJz   = 0xb
	opcodeJnz  = 0xc
	opcodeJgt  = 0xd
	opcodeExt  = 0xf
)

// E-type subcodes.
const (
	subNop       = 0x0
	subMovsRead  = 0x1 // general <- special
	subMovsWrite = 0x2 // special <- general
	subSyscall   = 0xe
	subHalt      = 0xf
)

// J-type signed offset range.
const (
	OffsetMin = -2048
	OffsetMax = 2047
)

var aluFunct = [8]Op{OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR, OP_NOT, OP_SLL, OP_SHR}
var memFunct = [6]Op{OP_LOADI, OP_STOREI, OP_CMP, OP_RET, OP_PUSH, OP_POP}
var itypeOp = [7]Op{OP_LOAD, OP_STORE, OP_ADDI, OP_ANDI, OP_ORI, OP_LUI, OP_CMPI}
var jtypeOp = [5]Op{OP_CALL, OP_JMP, OP_JZ, OP_JNZ, OP_JGT}

// Decode maps a 16-bit word to its instruction, or fails with
// ErrDecode for any of the bit patterns the ISA leaves unassigned.
// Any unused field of a defined instruction must be zero, so a word
// that decodes successfully re-encodes to the identical bit pattern.
func Decode(word uint16) (in Inst, err error) {
	opcode := word >> opcodeShift

	switch {
	case opcode == opcodeAlu || opcode == opcodeMem:
		funct := word & functMask
		if opcode == opcodeAlu {
			in.Op = aluFunct[funct]
		} else {
			if int(funct) >= len(memFunct) {
				err = ErrDecode(word)
				return
			}
			in.Op = memFunct[funct]
		}
		in.Rd = Reg((word >> rdShift) & regMask)
		in.Rs = Reg((word >> rsShift) & regMask)
		in.Rt = Reg((word >> rtShift) & regMask)

	case opcode >= opcodeLoad && opcode <= opcodeCmpi:
		if word&immZero != 0 {
			err = ErrDecode(word)
			return
		}
		in.Op = itypeOp[opcode-opcodeLoad]
		in.Rt = Reg((word >> rdShift) & regMask)
		in.Imm = uint8(word & immMask)

	case opcode >= opcodeCall && opcode <= opcodeJgt:
		in.Op = jtypeOp[opcode-opcodeCall]
		off := word & offsetMask
		if off&0x0800 != 0 {
			off |= 0xf000 // sign extend
		}
		in.Off = int16(off)

	case opcode == opcodeExt:
		if word&eLowMask != 0 {
			err = ErrDecode(word)
			return
		}
		sub := (word >> subShift) & subMask
		switch sub {
		case subNop:
			in.Op = OP_NOP
		case subMovsRead:
			in.Op = OP_RMOVS
		case subMovsWrite:
			in.Op = OP_WMOVS
		case subSyscall:
			in.Op = OP_SYSCALL
		case subHalt:
			in.Op = OP_HALT
		default:
			err = ErrDecode(word)
			return
		}
		in.Rs = Reg((word >> eRsShift) & regMask)
		in.Spec = Spec((word >> eSpecShift) & eSpecMask)

	default:
		// opcode 0xE has no format assigned
		err = ErrDecode(word)
		return
	}

	if !in.fieldsValid() {
		in = Inst{}
		err = ErrDecode(word)
	}

	return
}

// Encode maps an instruction to its 16-bit word. It fails when a
// register index, special-register id, or jump offset is out of range,
// or when an operand field the instruction does not use is nonzero.
func (in Inst) Encode() (word uint16, err error) {
	if in.Rd > regMask || in.Rs > regMask || in.Rt > regMask {
		err = ErrRegisterInvalid
		return
	}
	if !in.fieldsValid() {
		err = ErrOperandInvalid
		return
	}

	switch in.Op {
	case OP_ADD, OP_SUB, OP_AND, OP_OR, OP_XOR, OP_NOT, OP_SLL, OP_SHR:
		funct := uint16(in.Op - OP_ADD)
		word = opcodeAlu<<opcodeShift |
			uint16(in.Rd)<<rdShift | uint16(in.Rs)<<rsShift | uint16(in.Rt)<<rtShift | funct

	case OP_LOADI, OP_STOREI, OP_CMP, OP_RET, OP_PUSH, OP_POP:
		funct := uint16(in.Op - OP_LOADI)
		word = opcodeMem<<opcodeShift |
			uint16(in.Rd)<<rdShift | uint16(in.Rs)<<rsShift | uint16(in.Rt)<<rtShift | funct

	case OP_LOAD, OP_STORE, OP_ADDI, OP_ANDI, OP_ORI, OP_LUI, OP_CMPI:
		opcode := uint16(opcodeLoad + (in.Op - OP_LOAD))
		word = opcode<<opcodeShift | uint16(in.Rt)<<rdShift | uint16(in.Imm)

	case OP_CALL, OP_JMP, OP_JZ, OP_JNZ, OP_JGT:
		if in.Off < OffsetMin || in.Off > OffsetMax {
			err = ErrOffsetRange(int(in.Off))
			return
		}
		opcode := uint16(opcodeCall + (in.Op - OP_CALL))
		word = opcode<<opcodeShift | uint16(in.Off)&offsetMask

	case OP_NOP, OP_RMOVS, OP_WMOVS, OP_SYSCALL, OP_HALT:
		var sub uint16
		switch in.Op {
		case OP_NOP:
			sub = subNop
		case OP_RMOVS:
			sub = subMovsRead
		case OP_WMOVS:
			sub = subMovsWrite
		case OP_SYSCALL:
			sub = subSyscall
		case OP_HALT:
			sub = subHalt
		}
		word = opcodeExt<<opcodeShift | sub<<subShift |
			uint16(in.Rs)<<eRsShift | uint16(in.Spec)<<eSpecShift

	default:
		err = ErrOperandInvalid
	}

	return
}
