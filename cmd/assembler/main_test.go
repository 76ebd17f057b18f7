package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assembler", func() {
	var (
		dir    string
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		input  string
		output string
	)

	runCmd := func(args ...string) error {
		cmd := newRootCmd(stdout, stderr)
		cmd.SetArgs(args)
		return execute(cmd, stderr)
	}

	writeSource := func(src string) {
		Expect(os.WriteFile(input, []byte(src), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "edvm-assembler")
		Expect(err).NotTo(HaveOccurred())

		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		input = filepath.Join(dir, "program.asm")
		output = filepath.Join(dir, "program.bin")
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("should write the machine code to the output file", func() {
		writeSource("; two instructions\nload_const 1\n\nread_mem 2 ; read\n")

		err := runCmd("--input", input, "--output", output)

		Expect(err).NotTo(HaveOccurred())
		Expect(os.ReadFile(output)).To(Equal(
			[]byte{0xFC, 0x00, 0x08, 0xC4, 0x00, 0x00, 0x01, 0x00}))
		Expect(stdout.String()).To(BeEmpty())
	})

	It("should write an empty file for a program without instructions", func() {
		writeSource("; hello\n\n")

		err := runCmd("--input", input, "--output", output)

		Expect(err).NotTo(HaveOccurred())
		Expect(os.ReadFile(output)).To(BeEmpty())
	})

	It("should print the pairs in test mode without writing the output file", func() {
		writeSource("load_const 5\nneq_mem\n")

		err := runCmd("--input", input, "--output", output, "--test")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(Equal("(63, 5)\n(31, 0)\n"))
		Expect(output).NotTo(BeAnExistingFile())
	})

	It("should print a listing", func() {
		writeSource("write_mem 511\n")

		err := runCmd("--input", input, "--output", output, "--listing")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(ContainSubstring("EF FE"))
		Expect(stdout.String()).To(ContainSubstring("write_mem 511"))
		Expect(output).To(BeAnExistingFile())
	})

	It("should report every failing line and not write the output file", func() {
		writeSource("load_const 1\nfoo 5\nwrite_mem 512\n")

		err := runCmd("--input", input, "--output", output)

		Expect(err).To(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring(`line 2: unknown command "foo"`))
		Expect(stderr.String()).To(ContainSubstring(
			"line 3: operand 512 out of range for write_mem (0-511, 9 bits)"))
		Expect(output).NotTo(BeAnExistingFile())
	})

	It("should keep an existing output file if assembly fails", func() {
		Expect(os.WriteFile(output, []byte{0x7C}, 0o644)).To(Succeed())
		writeSource("read_mem\n")

		err := runCmd("--input", input, "--output", output)

		Expect(err).To(HaveOccurred())
		Expect(os.ReadFile(output)).To(Equal([]byte{0x7C}))
	})

	It("should require the input and output flags", func() {
		Expect(runCmd("--output", output)).To(MatchError(ContainSubstring(`"input"`)))
		Expect(runCmd("--input", input)).To(MatchError(ContainSubstring(`"output"`)))
	})

	It("should fail for a missing input file", func() {
		err := runCmd("--input", filepath.Join(dir, "missing.asm"), "--output", output)

		Expect(err).To(HaveOccurred())
		Expect(output).NotTo(BeAnExistingFile())
	})

	It("should reject an invalid log level", func() {
		writeSource("neq_mem\n")

		err := runCmd("--input", input, "--output", output, "--log-level", "loud")

		Expect(err).To(MatchError(ContainSubstring("invalid log level")))
	})

	It("should log at the configured level", func() {
		writeSource("neq_mem\n")

		err := runCmd("--input", input, "--output", output, "--log-level", "debug")

		Expect(err).NotTo(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring("parsed instruction"))
		Expect(stderr.String()).To(ContainSubstring("bytes=1"))
	})

	It("should report unknown flags", func() {
		err := runCmd("--inptu", input, "--output", output)

		Expect(err).To(MatchError(ContainSubstring("unknown flag: --inptu")))
		Expect(stderr.String()).To(ContainSubstring("unknown flag: --inptu"))
		Expect(output).NotTo(BeAnExistingFile())
	})

	It("should report unexpected arguments", func() {
		err := runCmd("extra")

		Expect(err).To(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring(`"extra"`))
	})

	It("should print assembly errors only once", func() {
		writeSource("foo 5\n")

		err := runCmd("--input", input, "--output", output)

		Expect(err).To(HaveOccurred())
		Expect(strings.Count(stderr.String(), `unknown command "foo"`)).To(Equal(1))
	})

	Context("with a config file", func() {
		var configFile string

		BeforeEach(func() {
			configFile = filepath.Join(dir, "assembler.toml")
		})

		It("should take flag defaults from the config file", func() {
			writeSource("neq_mem\n")
			Expect(os.WriteFile(configFile, []byte(
				"input = \""+filepath.ToSlash(input)+"\"\n"+
					"output = \""+filepath.ToSlash(output)+"\"\n"+
					"test = true\n"), 0o644)).To(Succeed())

			err := runCmd("--config", configFile)

			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(Equal("(31, 0)\n"))
		})

		It("should let flags override the config file", func() {
			writeSource("neq_mem\n")
			Expect(os.WriteFile(configFile, []byte(
				"input = \"does-not-exist.asm\"\ntest = true\n"), 0o644)).To(Succeed())

			err := runCmd("--config", configFile, "--input", input, "--output", output, "--test=false")

			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(output)).To(Equal([]byte{0x7C}))
		})

		It("should reject unknown keys", func() {
			Expect(os.WriteFile(configFile, []byte("inptu = \"x\"\n"), 0o644)).To(Succeed())

			err := runCmd("--config", configFile)

			Expect(err).To(MatchError(ContainSubstring("unknown key")))
		})
	})

	Describe("dump", func() {
		It("should print a listing of a binary", func() {
			Expect(os.WriteFile(output, []byte{0xFC, 0x00, 0x28, 0x7C}, 0o644)).To(Succeed())

			err := runCmd("dump", "--input", output)

			Expect(err).NotTo(HaveOccurred())
			Expect(stdout.String()).To(ContainSubstring("load_const"))
			Expect(stdout.String()).To(ContainSubstring("neq_mem"))
		})

		It("should reject a truncated binary", func() {
			Expect(os.WriteFile(output, []byte{0xFC, 0x00}, 0o644)).To(Succeed())

			err := runCmd("dump", "--input", output)

			Expect(err).To(MatchError(ContainSubstring("offset 0")))
			Expect(stderr.String()).To(HavePrefix("dump failed due to:"))
			Expect(stderr.String()).NotTo(ContainSubstring("assembly failed"))
		})
	})
})
