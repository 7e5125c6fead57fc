// Package spawn launches program instances and waits for their windows.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/1broseidon/winarrange/internal/actionlog"
	"github.com/1broseidon/winarrange/internal/platform"
)

// DefaultLaunchDelay spaces launches so slow programs are not started in
// one burst.
const DefaultLaunchDelay = 1500 * time.Millisecond

// ErrProgramNotFound is returned for an absolute program path that does not
// exist.
var ErrProgramNotFound = errors.New("program not found")

// Launcher starts a detached process and returns its pid.
type Launcher interface {
	Launch(program string, args []string) (uint32, error)
}

// ExecLauncher starts processes with os/exec and does not wait for them.
type ExecLauncher struct{}

func (ExecLauncher) Launch(program string, args []string) (uint32, error) {
	cmd := exec.Command(program, args...)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := uint32(cmd.Process.Pid)
	// The child outlives us; drop our handle without reaping it.
	_ = cmd.Process.Release()
	return pid, nil
}

// ValidateProgram rejects an absolute path that does not exist. Bare names
// are left for the launcher to resolve through PATH.
func ValidateProgram(program string) error {
	if program == "" {
		return fmt.Errorf("%w: empty program", ErrProgramNotFound)
	}
	if !filepath.IsAbs(program) {
		return nil
	}
	if _, err := os.Stat(program); err != nil {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, program)
	}
	return nil
}

// Awaiter waits for a window of a process launched from program that is
// not already taken.
type Awaiter interface {
	AwaitLaunch(ctx context.Context, pid uint32, program string, taken map[platform.WindowID]bool) (platform.WindowID, error)
}

// Result is the outcome of one launch. Err is set when either the launch
// or the window discovery failed; PID is non-zero once the launch worked.
type Result struct {
	Index  int
	PID    uint32
	Window platform.WindowID
	Err    error
}

// Options configures a Spawner.
type Options struct {
	LaunchDelay time.Duration
	Logger      *slog.Logger
	Actions     *actionlog.Logger
}

// Spawner launches count instances of a program one after another and
// resolves each to a distinct window.
type Spawner struct {
	launcher Launcher
	awaiter  Awaiter
	opts     Options
	logger   *slog.Logger
}

// New returns a Spawner.
func New(launcher Launcher, awaiter Awaiter, opts Options) *Spawner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Spawner{launcher: launcher, awaiter: awaiter, opts: opts, logger: logger}
}

// Spawn launches program count times. A failed launch or a discovery
// timeout is recorded on that index and the batch continues. Windows
// already claimed by an earlier index are skipped, so launchers that hand
// every instance to one process still yield distinct windows. When ctx is
// cancelled, or its deadline would pass before the next launch, the
// remaining indices report the context error.
func (s *Spawner) Spawn(ctx context.Context, program string, args []string, count int) []Result {
	results := make([]Result, count)
	limit := rate.Inf
	if s.opts.LaunchDelay > 0 {
		limit = rate.Every(s.opts.LaunchDelay)
	}
	limiter := rate.NewLimiter(limit, 1)
	taken := make(map[platform.WindowID]bool, count)

	for i := range count {
		results[i].Index = i
		if err := limiter.Wait(ctx); err != nil {
			err = notLaunched(ctx, err)
			for j := i; j < count; j++ {
				results[j] = Result{Index: j, Err: err}
			}
			s.logger.Warn("spawn stopped", "launched", i, "remaining", count-i, "error", err)
			break
		}

		pid, err := s.launcher.Launch(program, args)
		if err != nil {
			results[i].Err = fmt.Errorf("launch %s: %w", program, err)
			s.logger.Warn("launch failed", "index", i, "program", program, "error", err)
			continue
		}
		results[i].PID = pid
		s.logger.Info("launched", "index", i, "program", program, "pid", pid)
		s.opts.Actions.Log(actionlog.ActionSpawn, i, map[string]any{"program": program, "pid": pid})

		id, err := s.awaiter.AwaitLaunch(ctx, pid, program, taken)
		if err != nil {
			results[i].Err = err
			s.logger.Warn("no window for launched process", "index", i, "pid", pid, "error", err)
			s.opts.Actions.Log(actionlog.ActionTimeout, i, map[string]any{"pid": pid, "error": err})
			continue
		}
		taken[id] = true
		results[i].Window = id
		s.opts.Actions.Log(actionlog.ActionDiscover, i, map[string]any{
			"pid":    pid,
			"window": fmt.Sprintf("0x%x", uintptr(id)),
		})
	}
	return results
}

// notLaunched explains why the launch loop stopped. The limiter gives up
// before a deadline that the next launch would overrun, while ctx itself
// is still live.
func notLaunched(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: next launch is past the deadline", context.DeadlineExceeded)
	}
	return fmt.Errorf("launch pacing: %w", err)
}

// Windows returns the discovered windows in launch order, skipping failed
// indices.
func Windows(results []Result) []platform.WindowID {
	var out []platform.WindowID
	for _, r := range results {
		if r.Err == nil && r.Window != 0 {
			out = append(out, r.Window)
		}
	}
	return out
}
