// Package maincmd implements the host program's command-line surface: a
// positional source path plus -p/-s/-c flags, wired through mna/mainer the
// way a predecessor tool wired its own multi-command surface (Parser,
// CancelOnSignal, the mainer.ExitCode vocabulary) — generalized here to a
// single command instead of a command table, since this tool has exactly
// one thing to do with a source file: run it.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mna/mainer"

	"github.com/Lingshinx/sognasm/lang/assembler"
	"github.com/Lingshinx/sognasm/lang/lexer"
	"github.com/Lingshinx/sognasm/lang/machine"
	"github.com/Lingshinx/sognasm/lang/trace"
)

const binName = "sognasm"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Assembler and virtual machine for the sognasm bytecode language.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -p --trace                Show a stepwise execution trace.
       -s --step-ms <ms>         Delay in milliseconds between traced steps.
       -c --disassemble          Show the assembled bytecode listing instead
                                 of running it.

Standard input and standard output are the virtual machine's I/O channels.
`, binName)
)

// Cmd is the host program's single command, driven by mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help        bool `flag:"h,help"`
	Version     bool `flag:"v,version"`
	Trace       bool `flag:"p,trace"`
	StepMillis  int  `flag:"s,step-ms"`
	Disassemble bool `flag:"c,disassemble"`

	path string
}

// SetArgs receives the non-flag positional arguments.
func (c *Cmd) SetArgs(args []string) {
	if len(args) > 0 {
		c.path = args[0]
	}
}

// SetFlags is part of the mainer flag-setter interface; this command has no
// use for the raw presence map, only the parsed struct fields above.
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate checks the parsed arguments before Main acts on them.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.path == "" {
		return errors.New("a source path is required")
	}
	if c.StepMillis < 0 {
		return errors.New("-s must not be negative")
	}
	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

// Main implements mainer.Cmd.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		printError(stdio, err)
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) run(ctx context.Context, stdio mainer.Stdio) error {
	src, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	prog, err := assembler.Assemble(toks)
	if err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}

	if c.Disassemble {
		out, err := trace.Disassemble(prog)
		if err != nil {
			return fmt.Errorf("%s: %w", c.path, err)
		}
		fmt.Fprint(stdio.Stdout, out)
		return nil
	}

	m := machine.New(prog, stdio.Stdin, stdio.Stdout)

	if c.Trace {
		tr := &trace.Tracer{W: stdio.Stderr, Delay: time.Duration(c.StepMillis) * time.Millisecond}
		return runCancelable(ctx, func() error { return tr.Run(m) })
	}
	return runCancelable(ctx, m.Run)
}

// runCancelable runs fn, returning ctx.Err() instead of fn's result if the
// context is already canceled by the time fn returns. The VM's dispatch
// loop has no cancellation points of its own: the only suspension points
// are the I/O opcodes, which block on the host streams. This is as
// fine-grained as cancellation of a synchronous, single-threaded loop gets.
func runCancelable(ctx context.Context, fn func() error) error {
	err := fn()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
