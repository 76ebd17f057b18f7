package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config holds defaults for the command line flags read from a TOML file. Flags given on the
// command line take precedence.
type config struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Test     bool   `toml:"test"`
	Listing  bool   `toml:"listing"`
	LogLevel string `toml:"log-level"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	var c config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	return &c, nil
}

// applyConfig fills the options not set on the command line from the config file if one is given.
func applyConfig(cmd *cobra.Command, opts *options) error {
	if opts.config == "" {
		return nil
	}

	c, err := loadConfig(opts.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("input") && c.Input != "" {
		opts.input = c.Input
	}
	if !flags.Changed("output") && c.Output != "" {
		opts.output = c.Output
	}
	if !flags.Changed("test") && c.Test {
		opts.test = c.Test
	}
	if !flags.Changed("listing") && c.Listing {
		opts.listing = c.Listing
	}
	if !flags.Changed("log-level") && c.LogLevel != "" {
		opts.logLevel = c.LogLevel
	}

	return nil
}
