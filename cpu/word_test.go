package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		in   Inst
		word uint16
	}){
		{"add", Inst{Op: OP_ADD, Rd: 1, Rs: 2, Rt: 3}, 0x0298 | 0},
		{"sub", Inst{Op: OP_SUB, Rd: 1, Rs: 2, Rt: 3}, 0x0298 | 1},
		{"and", Inst{Op: OP_AND, Rd: 7, Rs: 7, Rt: 7}, 0x0fff&^functMask | 2},
		{"or", Inst{Op: OP_OR, Rd: 4, Rs: 5, Rt: 6}, 0x0970 | 3},
		{"xor", Inst{Op: OP_XOR, Rd: 1, Rs: 1, Rt: 1}, 0x0248 | 4},
		{"not", Inst{Op: OP_NOT, Rd: 2, Rs: 3}, 0x04c0 | 5},
		{"sll", Inst{Op: OP_SLL, Rd: 1, Rs: 2, Rt: 3}, 0x0298 | 6},
		{"shr", Inst{Op: OP_SHR, Rd: 1, Rs: 2, Rt: 3}, 0x0298 | 7},

		{"loadi", Inst{Op: OP_LOADI, Rd: 1, Rs: 2}, 0x1280 | 0},
		{"storei", Inst{Op: OP_STOREI, Rd: 1, Rs: 2}, 0x1280 | 1},
		{"cmp", Inst{Op: OP_CMP, Rs: 2, Rt: 3}, 0x1098 | 2},
		{"ret", Inst{Op: OP_RET}, 0x1000 | 3},
		{"push", Inst{Op: OP_PUSH, Rs: 5}, 0x1140 | 4},
		{"pop", Inst{Op: OP_POP, Rd: 5}, 0x1a00 | 5},

		{"load", Inst{Op: OP_LOAD, Rt: 1, Imm: 0x42}, 0x2242},
		{"store", Inst{Op: OP_STORE, Rt: 2, Imm: 0xff}, 0x34ff},
		{"addi", Inst{Op: OP_ADDI, Rt: 3, Imm: 0x7f}, 0x467f},
		{"addi_neg", Inst{Op: OP_ADDI, Rt: 3, Imm: 0xff}, 0x46ff},
		{"andi", Inst{Op: OP_ANDI, Rt: 4, Imm: 0x0f}, 0x580f},
		{"ori", Inst{Op: OP_ORI, Rt: 5, Imm: 0x80}, 0x6a80},
		{"lui", Inst{Op: OP_LUI, Rt: 6, Imm: 0x12}, 0x7c12},
		{"cmpi", Inst{Op: OP_CMPI, Rt: 7, Imm: 0x01}, 0x8e01},

		{"call", Inst{Op: OP_CALL, Off: 4}, 0x9004},
		{"jmp_neg", Inst{Op: OP_JMP, Off: -1}, 0xafff},
		{"jz", Inst{Op: OP_JZ, Off: 2047}, 0xb7ff},
		{"jnz", Inst{Op: OP_JNZ, Off: -2048}, 0xc800},
		{"jgt", Inst{Op: OP_JGT, Off: 0}, 0xd000},

		{"nop", Inst{Op: OP_NOP}, 0xf000},
		{"rmovs", Inst{Op: OP_RMOVS, Rs: 3, Spec: SPEC_SP}, 0xf168},
		{"wmovs", Inst{Op: OP_WMOVS, Rs: 3, Spec: SPEC_FLAGS}, 0xf270},
		{"syscall", Inst{Op: OP_SYSCALL}, 0xfe00},
		{"halt", Inst{Op: OP_HALT}, 0xff00},
	}

	for _, entry := range table {
		word, err := entry.in.Encode()
		assert.NoError(err, entry.name)
		assert.Equal(entry.word, word, entry.name)

		in, err := Decode(entry.word)
		assert.NoError(err, entry.name)
		assert.Equal(entry.in, in, entry.name)
	}
}

func TestEncodeInvalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		in   Inst
		want error
	}){
		{"reg_range", Inst{Op: OP_ADD, Rd: 8}, ErrRegisterInvalid},
		{"spec_range", Inst{Op: OP_RMOVS, Rs: 1, Spec: 3}, ErrOperandInvalid},
		{"unused_rd", Inst{Op: OP_PUSH, Rd: 1, Rs: 2}, ErrOperandInvalid},
		{"unused_imm", Inst{Op: OP_JMP, Off: 1, Imm: 1}, ErrOperandInvalid},
		{"unused_off", Inst{Op: OP_NOP, Off: 1}, ErrOperandInvalid},
		{"off_high", Inst{Op: OP_JMP, Off: 2048}, ErrOffsetRange(2048)},
		{"off_low", Inst{Op: OP_CALL, Off: -2049}, ErrOffsetRange(-2049)},
	}

	for _, entry := range table {
		_, err := entry.in.Encode()
		assert.ErrorIs(err, entry.want, entry.name)
	}
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		word uint16
	}){
		{"mem_funct_6", 0x1006},
		{"mem_funct_7", 0x1007},
		{"itype_bit8", 0x2100},
		{"opcode_e", 0xe000},
		{"ext_sub_3", 0xf300},
		{"ext_low_bits", 0xf001},
		{"ret_with_regs", 0x1203},
		{"movs_spec_3", 0xf118},
	}

	for _, entry := range table {
		_, err := Decode(entry.word)
		assert.ErrorIs(err, ErrDecode(entry.word), entry.name)
	}
}

// Every word either fails to decode, or decodes to an instruction
// that re-encodes to the identical word.
func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	decoded := 0
	for w := 0; w <= 0xFFFF; w++ {
		word := uint16(w)
		in, err := Decode(word)
		if err != nil {
			continue
		}
		decoded++

		back, err := in.Encode()
		if !assert.NoError(err, in.String()) {
			continue
		}
		assert.Equal(word, back, in.String())
	}

	// every defined encoding decodes
	assert.NotZero(decoded)
}
