package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"teleivo/edvm/assembler"
)

func main() {
	if err := execute(newRootCmd(os.Stdout, os.Stderr), os.Stderr); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

type options struct {
	config   string
	input    string
	output   string
	test     bool
	listing  bool
	logLevel string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "assembler --input program.asm --output program.bin",
		Short: "Assembler for the educational virtual machine",
		Long: `Assembler translates assembly for the educational virtual machine into its
binary instruction format.

Every line holds at most one instruction in the form

	mnemonic [operand] [; comment]

Supported mnemonics are load_const, read_mem, write_mem and neq_mem. Operands
are decimal unless prefixed with 0x, 0b or 0o. The output file holds the
encoded instructions in source order without any header.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, &opts); err != nil {
				return reportError(stderr, assemblyFailed, err)
			}
			logger, err := newLogger(stderr, opts.logLevel)
			if err != nil {
				return reportError(stderr, assemblyFailed, err)
			}
			return reportError(stderr, assemblyFailed, run(opts, stdout, logger))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "path to the assembly source file (required)")
	flags.StringVar(&opts.output, "output", "", "path to the binary output file (required)")
	flags.BoolVar(&opts.test, "test", false, "print the (opcode, operand) pairs instead of writing the output file")
	flags.BoolVar(&opts.listing, "listing", false, "print a listing of the assembled program")
	flags.StringVar(&opts.config, "config", "", "path to a TOML file providing defaults for the flags")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newDumpCmd(stdout, stderr))

	return cmd
}

// run assembles the input file. The output file is only created once the entire input assembled
// without errors.
func run(opts options, stdout io.Writer, logger *slog.Logger) error {
	if opts.input == "" {
		return errors.New(`required flag "input" not set`)
	}
	if opts.output == "" {
		return errors.New(`required flag "output" not set`)
	}

	fin, err := os.Open(opts.input)
	if err != nil {
		return err
	}
	defer fin.Close()

	program, err := edvm.Parse(fin)
	if err != nil {
		return err
	}
	logger.Info("parsed assembly", "input", opts.input, "instructions", len(program))

	if opts.listing {
		if err := edvm.WriteListing(stdout, program); err != nil {
			return err
		}
	}

	if opts.test {
		return edvm.WritePairs(stdout, program)
	}

	code := edvm.EncodeProgram(program)
	if err := writeFile(opts.output, code); err != nil {
		return err
	}
	logger.Info("wrote machine code", "output", opts.output, "bytes", len(code))

	return nil
}

// writeFile writes b to a temporary file next to name and renames it to name so that name never
// holds partial output.
func writeFile(name string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	_, err = f.Write(b)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, name)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
	slog.SetDefault(logger)
	return logger, nil
}

const assemblyFailed = "assembly failed due to:"

// reportedError marks an error that has already been printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// execute runs cmd and prints errors cobra returns before any command ran, like unknown flags.
func execute(cmd *cobra.Command, stderr io.Writer) error {
	err := cmd.Execute()
	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(stderr, "Error: %v\nRun '%s --help' for usage.\n", err, cmd.CommandPath())
	}
	return err
}

// reportError prints err to w below the given header. Every line that failed to assemble is
// printed on its own.
func reportError(w io.Writer, header string, err error) error {
	if err == nil {
		return nil
	}

	fmt.Fprintln(w, header)
	var errs edvm.ErrorList
	if errors.As(err, &errs) {
		for _, e := range errs {
			fmt.Fprintf(w, "%v\n\t%s\n", e, e.Source)
		}
		return reportedError{err}
	}
	fmt.Fprintln(w, err)
	return reportedError{err}
}
