package edvm

import (
	"fmt"
)

// UnknownCommandError is returned for a mnemonic that does not name a VM instruction.
type UnknownCommandError struct {
	Mnemonic string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Mnemonic)
}

// MalformedOperandError is returned for an operand that is missing or is not a non-negative integer
// literal.
type MalformedOperandError struct {
	Text string
	Err  error
}

func (e *MalformedOperandError) Error() string {
	if e.Text == "" {
		return "malformed operand: missing operand"
	}
	if e.Err == nil {
		return fmt.Sprintf("malformed operand %q", e.Text)
	}
	return fmt.Sprintf("malformed operand %q: %v", e.Text, e.Err)
}

func (e *MalformedOperandError) Unwrap() error {
	return e.Err
}

// OperandOutOfRangeError is returned for an operand that does not fit into the operand field of the
// instruction. Literal is only set if the operand does not even fit into 64 bits in which case Value
// holds no meaningful number.
type OperandOutOfRangeError struct {
	Value    uint64
	Literal  string
	Max      uint64
	Bits     uint
	Mnemonic string
}

func (e *OperandOutOfRangeError) Error() string {
	operand := fmt.Sprint(e.Value)
	if e.Literal != "" {
		operand = e.Literal
	}
	return fmt.Sprintf("operand %s out of range for %s (0-%d, %d bits)", operand, e.Mnemonic, e.Max, e.Bits)
}

// LineError annotates an error with the 1-based number and the text of the source line it occurred
// on.
type LineError struct {
	Line   int
	Source string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ErrorList collects the errors of all lines that failed to parse in source order.
type ErrorList []*LineError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Unwrap allows errors.Is and errors.As to inspect every line error.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

// DecodeError is returned for a binary that is not a valid sequence of encoded instructions.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode instruction at offset %d: %s", e.Offset, e.Reason)
}
