package edvm

import (
	"fmt"
	"io"
)

// AppendInstruction appends the encoding of ins to dst and returns the extended slice.
//
// The opcode forms the high 6 bits followed by the operand field of the instruction. The resulting
// bit field is written MSB-first into as few whole bytes as it needs with the remaining low bits of
// the last byte set to zero. An instruction therefore always encodes to the same number of bytes
// regardless of its operand.
//
// AppendInstruction panics if the opcode is unknown or the operand does not fit into its field.
// Instructions returned by Parse always satisfy both.
func AppendInstruction(dst []byte, ins Instruction) []byte {
	spec, ok := lookupOpcode(ins.Opcode)
	if !ok {
		panic(fmt.Sprintf("edvm: cannot encode unknown opcode %d", ins.Opcode))
	}
	if uint64(ins.Operand) > spec.Max() {
		panic(fmt.Sprintf("edvm: operand %d of %s exceeds its %d bit field", ins.Operand, spec.Name, spec.Bits))
	}

	size := spec.Size()
	pad := uint(size*8) - opcodeBits - spec.Bits
	word := (uint64(ins.Opcode)<<spec.Bits | uint64(ins.Operand)) << pad
	for i := size - 1; i >= 0; i-- {
		dst = append(dst, byte(word>>(uint(i)*8)))
	}
	return dst
}

// EncodeProgram returns the machine code of program. Instructions are concatenated in program
// order without any separators.
func EncodeProgram(program Program) []byte {
	var b []byte
	for _, st := range program {
		b = AppendInstruction(b, st.Instruction)
	}
	return b
}

// Encode writes the machine code of program to w.
func Encode(program Program, w io.Writer) error {
	var buf []byte
	for i, st := range program {
		buf = AppendInstruction(buf[:0], st.Instruction)

		n, err := w.Write(buf)
		if err != nil {
			return fmt.Errorf("failed to write instruction %d (line %d): %w", i, st.Line, err)
		}
		if n != len(buf) {
			return fmt.Errorf("failed to write entire instruction %d (line %d): wrote %d instead of %d bytes: %w", i, st.Line, n, len(buf), io.ErrShortWrite)
		}
	}
	return nil
}
