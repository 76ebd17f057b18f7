// Package edvm implements an assembler for the educational virtual machine. Source lines in the
// form "mnemonic [operand] [; comment]" are translated into a flat, headerless binary stream in
// which every instruction is a 6-bit opcode followed by its operand field, packed MSB-first into
// the minimum number of whole bytes.
package edvm

import (
	"io"
)

// Instruction is a validated (opcode, operand) pair. The operand always fits into the operand field
// of the instruction identified by Opcode.
type Instruction struct {
	Opcode  uint8
	Operand uint32
}

// Statement is an instruction together with the source line it was parsed from. Line is 1-based and
// is 0 for instructions that did not come from source text, like the ones produced by Decode.
type Statement struct {
	Instruction
	Line int
	Text string
}

// Program is the ordered sequence of instructions. Order is the execution order on the VM.
type Program []Statement

// Assemble translates assembly read from r into machine code written to w. Nothing is written to w
// if any line fails to parse.
func Assemble(r io.Reader, w io.Writer) error {
	program, err := Parse(r)
	if err != nil {
		return err
	}

	return Encode(program, w)
}
