// Package cpu implements the S16 processor and its assembler.
//
// The S16 is a 16-bit word-addressed RISC machine: eight general
// registers (R0 reads as zero), a program counter, a stack pointer
// growing down through main memory, and a four-bit flags word (Z, C,
// N, V). Instructions are one 16-bit word in one of four formats:
// register-register (R), immediate (I), jump (J), and extended (E).
//
// The same Encode/Decode pair serves both the assembler and the
// machine, so an assembled image and the executing fetch loop can
// never disagree about the bit layout.
package cpu
