package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/winarrange/internal/actionlog"
	"github.com/1broseidon/winarrange/internal/notify"
	"github.com/1broseidon/winarrange/internal/procs"
	"github.com/1broseidon/winarrange/internal/prompt"
)

func runArrange(args []string) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winarrange arrange [options] <program>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arrange every open main window of a program in a grid.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	var gf gridFlags
	gf.register(fs)
	descendants := fs.Bool("descendants", false, "Also match windows of processes started by the program")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gf.parsed(fs)

	sess, err := openSession(gf.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sess.Close()

	p := prompt.New()
	program := fs.Arg(0)
	if program == "" {
		program, err = p.String("Program name:")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess.actions.Log(actionlog.ActionRunStart, -1, map[string]any{"command": "arrange", "program": program})
	windows, _, err := sess.engine.WindowsForProgram(program, *descendants)
	if errors.Is(err, procs.ErrNoProcessesMatched) {
		fmt.Fprintf(os.Stderr, "no running process matches %q\n", program)
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(windows) == 0 {
		fmt.Printf("%s is running but has no main windows\n", program)
		return 0
	}

	grid, err := gf.resolve(sess.cfg, len(windows), p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	origin, err := gf.resolveOrigin(sess.engine, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	positions, err := sess.engine.PlanGrid(len(windows), grid, origin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	outcomes := sess.engine.Arrange(ctx, grid, windows, positions)
	return sess.finish(runReport{
		program:  program,
		found:    len(windows),
		dropped:  grid.Dropped(len(windows)),
		outcomes: outcomes,
	})
}

// finish prints the report, pushes the completion toast and closes the
// run in the action log. It returns the command's exit code.
func (s *session) finish(r runReport) int {
	fmt.Print(r.render())

	failed := r.failures()
	if err := notify.New(s.cfg.Notify.Enabled).Done(r.program, r.placed(), failed); err != nil {
		s.logger.Warn("notification failed", "error", err)
	}
	s.actions.Log(actionlog.ActionRunEnd, -1, map[string]any{
		"program": r.program,
		"placed":  r.placed(),
		"failed":  failed,
	})
	if failed > 0 {
		return 1
	}
	return 0
}
