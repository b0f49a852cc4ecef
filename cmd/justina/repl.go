package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"justina/console"
	"justina/interp"
)

// replCmd starts an interactive session, line-edited by chzyer/readline for
// history and cursor-editing support.
type replCmd struct {
	configPath string
}

func (*replCmd) Name() string { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive Justina session" }
func (*replCmd) Usage() string {
	return "repl [-config file.toml]:\n Start an interactive read-eval-print loop.\n"
}
func (r *replCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.configPath, "config", "", "optional TOML config file")
}

// readlineSource adapts a *readline.Instance's line-oriented Readline into
// the byte-at-a-time io.Reader console.Assembler expects, so the same
// Assembler serves both the REPL and the batch-file loader.
type readlineSource struct {
	rl *readline.Instance
	pending []byte
	eof bool
}

func (s *readlineSource) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
 if s.eof {
 return 0, io.EOF
 }
 line, err := s.rl.Readline()
 if err != nil {
 s.eof = true
 if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
 continue // let the next Read observe eof and return io.EOF
 }
 return 0, err
 }
 s.pending = append([]byte(line), '\n')
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(r.configPath)
	if err != nil {
 fatalf("config error: %v", err)
 return subcommands.ExitFailure
	}

	rl, err := readline.New(">>> ")
	if err != nil {
 fatalf("readline init error: %v", err)
 return subcommands.ExitFailure
	}
	defer rl.Close()

	ip := interp.New(interp.Config{
 ProgramBufferBytes: cfg.ProgramBufferBytes,
 ImmediateBufferBytes: cfg.ImmediateBufferBytes,
 Out: rl.Stdout,
 Dbg: rl.Stderr,
 In: rl.Stdin,
	})

	src := &readlineSource{rl: rl}
	asm := console.NewAssembler(src, ip)
	asm.PromptFunc = func(fresh bool) {
 if fresh {
 rl.SetPrompt(">>> ")
 } else {
 rl.SetPrompt("... ")
 }
	}

	fmt.Fprintln(rl.Stdout, "Justina interactive session. Ctrl-D to exit.")
	asm.RunREPL(func(err error) {
 fmt.Fprintln(rl.Stderr, err)
	})
	return subcommands.ExitSuccess
}
