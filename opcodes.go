package edvm

// opcodeBits is the width of the opcode field which leads every instruction.
const opcodeBits = 6

// opcodeSpec describes one instruction of the VM.
type opcodeSpec struct {
	Name   string
	Opcode uint8
	// Bits is the width of the operand field. Instructions with a zero width take no operand.
	Bits uint
}

// Max returns the largest operand the instruction accepts.
func (o opcodeSpec) Max() uint64 {
	return 1<<o.Bits - 1
}

// Size returns the number of bytes a single encoded instruction occupies.
func (o opcodeSpec) Size() int {
	return int(opcodeBits+o.Bits+7) / 8
}

var mnemonics map[string]opcodeSpec = map[string]opcodeSpec{
	"load_const": {Name: "load_const", Opcode: 63, Bits: 15},
	"read_mem":   {Name: "read_mem", Opcode: 49, Bits: 27},
	"write_mem":  {Name: "write_mem", Opcode: 59, Bits: 9},
	"neq_mem":    {Name: "neq_mem", Opcode: 31, Bits: 0},
}

// lookupMnemonic expects a lower case mnemonic.
func lookupMnemonic(name string) (opcodeSpec, bool) {
	spec, ok := mnemonics[name]
	return spec, ok
}

func lookupOpcode(opcode uint8) (opcodeSpec, bool) {
	for _, spec := range mnemonics {
		if spec.Opcode == opcode {
			return spec, true
		}
	}
	return opcodeSpec{}, false
}
