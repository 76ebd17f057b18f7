package edvm

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WritePairs writes one "(opcode, operand)" pair per instruction to w.
func WritePairs(w io.Writer, program Program) error {
	for _, st := range program {
		if _, err := fmt.Fprintf(w, "(%d, %d)\n", st.Opcode, st.Operand); err != nil {
			return fmt.Errorf("failed to write instruction %v: %w", st.Instruction, err)
		}
	}
	return nil
}

// WriteListing writes a table of the program to w showing every instruction next to its machine
// code and the source line it was assembled from.
func WriteListing(w io.Writer, program Program) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Line", "Mnemonic", "Opcode", "Operand", "Machine code", "Source"})

	var size int
	for i, st := range program {
		spec, ok := lookupOpcode(st.Opcode)
		if !ok {
			return fmt.Errorf("failed to list instruction %d: unknown opcode %d", i, st.Opcode)
		}
		code := AppendInstruction(nil, st.Instruction)
		size += len(code)

		line := "-"
		if st.Line > 0 {
			line = fmt.Sprint(st.Line)
		}
		t.AppendRow(table.Row{i, line, spec.Name, st.Opcode, st.Operand, fmt.Sprintf("% X", code), st.Text})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", fmt.Sprintf("%d bytes", size), ""})

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}
