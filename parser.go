package edvm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// commentStart starts a comment which extends to the end of the line.
const commentStart = ";"

// Parse parses assembly into a program. Parsing does not stop at the first line that fails to
// parse. The errors of all failing lines are returned as an ErrorList in which case no program is
// returned.
func Parse(r io.Reader) (Program, error) {
	var program Program
	var errs ErrorList

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	var line int
	for s.Scan() {
		line++
		text := s.Text()

		ins, ok, err := ParseLine(text)
		if err != nil {
			errs = append(errs, &LineError{Line: line, Source: text, Err: err})
			continue
		}
		if !ok {
			continue
		}

		slog.Debug("parsed instruction", "line", line, "opcode", ins.Opcode, "operand", ins.Operand)
		program = append(program, Statement{
			Instruction: ins,
			Line:        line,
			Text:        strings.TrimSpace(text),
		})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assembly: %w", err)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return program, nil
}

// ParseLine parses a single line of assembly. It returns false if the line is blank or only holds a
// comment.
func ParseLine(line string) (Instruction, bool, error) {
	line, _, _ = strings.Cut(line, commentStart)
	command := strings.TrimSpace(line)
	if len(command) == 0 {
		return Instruction{}, false, nil
	}

	mnemonic, operand := command, ""
	if i := strings.IndexFunc(command, unicode.IsSpace); i >= 0 {
		mnemonic, operand = command[:i], strings.TrimSpace(command[i:])
	}
	mnemonic = strings.ToLower(mnemonic)

	spec, ok := lookupMnemonic(mnemonic)
	if !ok {
		return Instruction{}, false, &UnknownCommandError{Mnemonic: mnemonic}
	}

	// instructions without an operand field ignore anything following the mnemonic
	if spec.Bits == 0 {
		return Instruction{Opcode: spec.Opcode}, true, nil
	}

	v, err := parseOperand(spec, operand)
	if err != nil {
		return Instruction{}, false, err
	}
	return Instruction{Opcode: spec.Opcode, Operand: uint32(v)}, true, nil
}

func parseOperand(spec opcodeSpec, in string) (uint64, error) {
	if len(in) == 0 {
		return 0, &MalformedOperandError{}
	}

	v, err := parseNumber(in)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &OperandOutOfRangeError{
			Literal:  in,
			Max:      spec.Max(),
			Bits:     spec.Bits,
			Mnemonic: spec.Name,
		}
	}
	if err != nil {
		return 0, &MalformedOperandError{Text: in, Err: errors.Unwrap(err)}
	}

	if v > spec.Max() {
		return 0, &OperandOutOfRangeError{
			Value:    v,
			Max:      spec.Max(),
			Bits:     spec.Bits,
			Mnemonic: spec.Name,
		}
	}
	return v, nil
}
