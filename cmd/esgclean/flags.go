package main

import (
	"flag"
	"os"
)

// Flags holds all command-line flags
type Flags struct {
	// Options
	Config *string
	Input  *string
	Output *string

	// Config Creation
	CreateConfig *bool

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) *Flags {
	f := &Flags{}

	// Options
	f.Config = fs.String("config", "", "Pipeline configuration file (YAML); built-in ESG pipeline if empty")
	f.Input = fs.String("input", "", "Source file path (overrides source.path)")
	f.Output = fs.String("output", "", "Destination file path (overrides output.destination)")

	// Config Creation
	f.CreateConfig = fs.Bool("create-config", false, "Create sample pipeline config file (pipeline.yaml)")

	// Misc
	f.Version = fs.Bool("version", false, "Show version information")
	f.Help = fs.Bool("help", false, "Show help with examples")

	fs.Parse(args)

	return f
}
