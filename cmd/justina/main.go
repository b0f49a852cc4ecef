// Command justina is the CLI entry point: repl/run/tokens subcommands
// registered through github.com/google/subcommands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand, "")
	subcommands.Register(subcommands.FlagsCommand, "")
	subcommands.Register(subcommands.CommandsCommand, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&tokensCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func fatalf(format string, args...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
