package edvm

import (
	"fmt"
)

// Decode translates machine code back into a program. It is the inverse of EncodeProgram except
// that the returned statements carry no source lines.
func Decode(b []byte) (Program, error) {
	var program Program
	for offset := 0; offset < len(b); {
		opcode := b[offset] >> (8 - opcodeBits)
		spec, ok := lookupOpcode(opcode)
		if !ok {
			return nil, &DecodeError{Offset: offset, Reason: fmt.Sprintf("unknown opcode %d", opcode)}
		}

		size := spec.Size()
		if offset+size > len(b) {
			return nil, &DecodeError{
				Offset: offset,
				Reason: fmt.Sprintf("%s needs %d bytes but only %d are left", spec.Name, size, len(b)-offset),
			}
		}

		var word uint64
		for _, c := range b[offset : offset+size] {
			word = word<<8 | uint64(c)
		}
		pad := uint(size*8) - opcodeBits - spec.Bits
		if word&(1<<pad-1) != 0 {
			return nil, &DecodeError{Offset: offset, Reason: fmt.Sprintf("%s has non-zero padding bits", spec.Name)}
		}

		operand := (word >> pad) & spec.Max()
		program = append(program, Statement{
			Instruction: Instruction{Opcode: opcode, Operand: uint32(operand)},
		})
		offset += size
	}
	return program, nil
}
