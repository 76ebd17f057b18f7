package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"teleivo/edvm/assembler"
)

func newDumpCmd(stdout, stderr io.Writer) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "dump --input program.bin",
		Short: "Print a listing of an assembled binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportError(stderr, "dump failed due to:", dump(input, stdout))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "path to the binary file (required)")

	return cmd
}

func dump(input string, w io.Writer) error {
	if input == "" {
		return errors.New(`required flag "input" not set`)
	}

	b, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	program, err := edvm.Decode(b)
	if err != nil {
		return err
	}
	return edvm.WriteListing(w, program)
}
