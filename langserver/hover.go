package langserver

import "strings"

// mnemonicDocs holds the hover markdown for each instruction mnemonic.
var mnemonicDocs = map[string]string{
	"ADD":    "`ADD Rd, Rs, Rt`\n\nRd = Rs + Rt. Sets Z, N, C, V.",
	"SUB":    "`SUB Rd, Rs, Rt`\n\nRd = Rs - Rt. Sets Z, N, C (borrow), V.",
	"AND":    "`AND Rd, Rs, Rt`\n\nRd = Rs & Rt. Sets Z, N; clears C, V.",
	"OR":     "`OR Rd, Rs, Rt`\n\nRd = Rs | Rt. Sets Z, N; clears C, V.",
	"XOR":    "`XOR Rd, Rs, Rt`\n\nRd = Rs ^ Rt. Sets Z, N; clears C, V.",
	"NOT":    "`NOT Rd, Rs`\n\nRd = ^Rs. Sets Z, N; clears C, V.",
	"SLL":    "`SLL Rd, Rs, Rt`\n\nRd = Rs << (Rt & 15). C is the last bit shifted out.",
	"SHR":    "`SHR Rd, Rs, Rt`\n\nRd = Rs >> (Rt & 15), logical. C is the last bit shifted out.",
	"LOADI":  "`LOADI Rd, Rs`\n\nRd = memory[Rs].",
	"STOREI": "`STOREI Rd, Rs`\n\nmemory[Rs] = Rd.",
	"CMP":    "`CMP Rs, Rt`\n\nSets flags for Rs - Rt without writing a register.",
	"RET":    "`RET`\n\nPops the return address from the stack into PC.",
	"PUSH":   "`PUSH Rs`\n\nSP = SP - 1; memory[SP] = Rs.",
	"POP":    "`POP Rd`\n\nRd = memory[SP]; SP = SP + 1.",
	"LOAD":   "`LOAD Rt, imm`\n\nRt = memory[imm]. imm is an unsigned byte (zero page).",
	"STORE":  "`STORE Rt, imm`\n\nmemory[imm] = Rt. imm is an unsigned byte (zero page).",
	"ADDI":   "`ADDI Rt, imm`\n\nRt = Rt + imm, imm in -128..127. Sets Z, N, C, V.",
	"ANDI":   "`ANDI Rt, imm`\n\nRt = Rt & imm, imm in 0..255.",
	"ORI":    "`ORI Rt, imm`\n\nRt = Rt | imm, imm in 0..255.",
	"LUI":    "`LUI Rt, imm`\n\nRt = imm << 8.",
	"CMPI":   "`CMPI Rt, imm`\n\nSets flags for Rt - imm, imm in -128..127.",
	"CALL":   "`CALL label`\n\nPushes the return address and jumps. Offset range -2048..2047 words.",
	"JMP":    "`JMP label`\n\nUnconditional PC-relative jump.",
	"JZ":     "`JZ label`\n\nJump if Z is set.",
	"JNZ":    "`JNZ label`\n\nJump if Z is clear.",
	"JGT":    "`JGT label`\n\nJump if the last signed compare was greater (Z clear and N == V).",
	"NOP":    "`NOP`\n\nDoes nothing for one cycle.",
	"MOVS":   "`MOVS Rd, spec` / `MOVS spec, Rs`\n\nMoves between a general register and PC, SP, or FLAGS.",
	"RMOVS":  "`MOVS Rd, spec`\n\nRd = special register (PC, SP, or FLAGS).",
	"WMOVS":  "`MOVS spec, Rs`\n\nSpecial register (PC, SP, or FLAGS) = Rs.",
	"SYSCALL": "`SYSCALL`\n\nInvokes the host system-call handler. R1 selects the operation; " +
		"the machine faults if no handler is installed.",
	"HALT": "`HALT`\n\nStops execution. The halted state is permanent until reset.",
	".EQU": "`.equ NAME VALUE`\n\nDefines a textual constant substituted into later operands.",
}

func isWordChar(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// wordAt extracts the identifier-like token surrounding a position.
func wordAt(text string, pos TextPosition) string {
	lines := strings.Split(text, "\n")
	if pos.Line < 0 || pos.Line >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := pos.Character
	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordChar(line[end]) {
		end++
	}
	return line[start:end]
}

func hoverFor(text string, pos TextPosition) (md string, ok bool) {
	word := wordAt(text, pos)
	if word == "" {
		return
	}
	md, ok = mnemonicDocs[strings.ToUpper(word)]
	return
}
