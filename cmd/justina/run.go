package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"justina/console"
	"justina/interp"
)

// runCmd executes a Justina source file from start to finish: open the
// file, load it statement by statement, then run the assembled program.
type runCmd struct {
	configPath string
}

func (*runCmd) Name() string { return "run" }
func (*runCmd) Synopsis() string { return "Execute Justina source from a file" }
func (*runCmd) Usage() string {
	return "run [-config file.toml] <file>:\n Load and execute a Justina program.\n"
}
func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configPath, "config", "", "optional TOML config file")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
 fatalf("source file not provided")
 return subcommands.ExitUsageError
	}

	cfg, err := loadConfig(r.configPath)
	if err != nil {
 fatalf("config error: %v", err)
 return subcommands.ExitFailure
	}

	file, err := os.Open(args[0])
	if err != nil {
 fatalf("failed to open file: %v", err)
 return subcommands.ExitFailure
	}
	defer file.Close()

	ip := interp.New(interp.Config{
 ProgramBufferBytes: cfg.ProgramBufferBytes,
 ImmediateBufferBytes: cfg.ImmediateBufferBytes,
 Out: os.Stdout,
 Dbg: os.Stderr,
 In: os.Stdin,
	})

	asm := console.NewAssembler(file, ip)
	if err := asm.LoadProgram(); err != nil {
 fatalf("parse error: %v", err)
 return subcommands.ExitFailure
	}
	if err := ip.RunProgram(); err != nil {
 fatalf("runtime error: %v", err)
 return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
