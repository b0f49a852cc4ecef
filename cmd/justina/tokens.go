package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"justina/console"
	"justina/interp"
)

// tokensCmd parses a source file and dumps its token buffer as hexadecimal.
type tokensCmd struct{}

func (*tokensCmd) Name() string { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Parse a source file and dump its token buffer" }
func (*tokensCmd) Usage() string {
	return "tokens <file>:\n Parse a Justina program and print its token-buffer bytes in hex.\n"
}
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (t *tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
 fatalf("source file not provided")
 return subcommands.ExitUsageError
	}

	file, err := os.Open(args[0])
	if err != nil {
 fatalf("failed to open file: %v", err)
 return subcommands.ExitFailure
	}
	defer file.Close()

	ip := interp.New(interp.Config{Out: os.Stdout, Dbg: os.Stderr, In: os.Stdin})
	asm := console.NewAssembler(file, ip)
	if err := asm.LoadProgram(); err != nil {
 fatalf("parse error: %v", err)
 return subcommands.ExitFailure
	}

	buf := ip.ProgramBytes()
	for i := 0; i < len(buf); i += 16 {
 end := i + 16
 if end > len(buf) {
 end = len(buf)
 }
 fmt.Printf("%04x % x\n", i, buf[i:end])
	}
	return subcommands.ExitSuccess
}
