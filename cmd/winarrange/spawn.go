package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/1broseidon/winarrange/internal/actionlog"
	"github.com/1broseidon/winarrange/internal/discovery"
	"github.com/1broseidon/winarrange/internal/prompt"
	"github.com/1broseidon/winarrange/internal/spawn"
	"github.com/1broseidon/winarrange/internal/tiling"
)

func runSpawn(args []string) int {
	fs := flag.NewFlagSet("spawn", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winarrange spawn [options] <program> [-- program args...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Launch copies of a program, wait for their windows and arrange them.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	var gf gridFlags
	gf.register(fs)
	count := fs.Int("count", 0, "Number of instances to launch (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	gf.parsed(fs)
	program, programArgs := splitProgramArgs(fs.Args())

	sess, err := openSession(gf.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sess.Close()

	p := prompt.New()
	if program == "" {
		program, err = p.String("Program to launch:")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if err := spawn.ValidateProgram(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	n := *count
	for n < 1 {
		if n, err = p.Int("How many instances?"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if n < 1 {
			fmt.Fprintln(os.Stderr, "count must be at least 1")
		}
	}
	grid, err := gf.resolve(sess.cfg, n, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if capped := launchCount(n, grid); capped < n {
		fmt.Fprintf(os.Stderr, "the grid holds %d windows; launching %d instead of %d\n", capped, capped, n)
		n = capped
	}

	if threshold := sess.cfg.Spawn.ConfirmThreshold; threshold > 0 && n > threshold {
		ok, err := p.Confirm(fmt.Sprintf("About to launch %d instances of %s.", n, program), "CONFIRM")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "aborted")
			return 1
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess.actions.Log(actionlog.ActionRunStart, -1, map[string]any{"command": "spawn", "program": program, "count": n})

	// Launchers that re-exec under a new pid only show up as descendants.
	retrier := sess.engine.Retrier(discovery.Policy{
		MaxAttempts:       sess.cfg.Discovery.MaxAttempts,
		Interval:          sess.cfg.Discovery.Interval,
		FollowDescendants: true,
	})
	spawner := spawn.New(spawn.ExecLauncher{}, retrier, spawn.Options{
		LaunchDelay: sess.cfg.Spawn.LaunchDelay,
		Logger:      sess.logger,
		Actions:     sess.actions,
	})
	results := spawner.Spawn(ctx, program, programArgs, n)
	windows := spawn.Windows(results)
	if len(windows) == 0 {
		fmt.Print(runReport{program: program, launches: results}.render())
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
		launches: results,
		outcomes: outcomes,
	})
}

// launchCount limits requested launches to what grid can place.
func launchCount(requested int, grid tiling.Grid) int {
	return min(requested, grid.Capacity())
}

// splitProgramArgs splits the positional arguments into the program and
// the arguments passed through to it after "--".
func splitProgramArgs(rest []string) (string, []string) {
	if len(rest) == 0 {
		return "", nil
	}
	program := rest[0]
	rest = rest[1:]
	if i := slices.Index(rest, "--"); i >= 0 {
		return program, rest[i+1:]
	}
	return program, rest
}
