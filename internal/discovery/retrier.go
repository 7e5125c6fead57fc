package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
)

// ErrWindowDiscoveryTimeout matches every *TimeoutError.
var ErrWindowDiscoveryTimeout = errors.New("window discovery timed out")

// TimeoutError reports that no window appeared for PID within the policy.
type TimeoutError struct {
	PID      uint32
	Attempts int
	Interval time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("no window for pid %d after %d attempts %s apart", e.PID, e.Attempts, e.Interval)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrWindowDiscoveryTimeout
}

// Policy bounds how long Await polls for a window.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	// FollowDescendants widens each poll to the process's descendants, for
	// launchers that hand off to a child or re-exec under a new pid.
	FollowDescendants bool
}

// DefaultPolicy is 20 attempts half a second apart.
var DefaultPolicy = Policy{MaxAttempts: 20, Interval: 500 * time.Millisecond, FollowDescendants: true}

// Descender resolves the descendants of a set of processes.
type Descender interface {
	Descendants(roots procs.Set) (procs.Set, error)
}

// Matcher resolves program names to running processes.
type Matcher interface {
	Match(target string) (procs.Set, error)
	NameOf(pid uint32) (string, error)
}

// Retrier waits for freshly launched processes to show a window.
type Retrier struct {
	enum    *Enumerator
	tree    Descender
	matcher Matcher
	policy  Policy
	logger  *slog.Logger
}

// NewRetrier returns a Retrier polling enum. tree may be nil when the
// policy does not follow descendants.
func NewRetrier(enum *Enumerator, tree Descender, policy Policy, logger *slog.Logger) *Retrier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Retrier{enum: enum, tree: tree, policy: policy, logger: logger}
}

// WithMatcher enables the program-name fallback of AwaitLaunch.
func (r *Retrier) WithMatcher(m Matcher) *Retrier {
	r.matcher = m
	return r
}

// Policy returns the effective policy.
func (r *Retrier) Policy() Policy { return r.policy }

// Await polls for the first main window owned by pid. See AwaitExcept.
func (r *Retrier) Await(ctx context.Context, pid uint32) (platform.WindowID, error) {
	return r.AwaitExcept(ctx, pid, nil)
}

// AwaitExcept polls up to MaxAttempts times, Interval apart, for the first
// main window owned by pid that is not in taken. Taken windows let a batch
// of launches that funnel into one long-lived process claim distinct
// windows. It fails with *TimeoutError when attempts run out, with a
// *procs.SnapshotError when the descendant snapshot cannot be taken, and
// with the context error when ctx ends first.
func (r *Retrier) AwaitExcept(ctx context.Context, pid uint32, taken map[platform.WindowID]bool) (platform.WindowID, error) {
	return r.await(ctx, pid, "", taken)
}

// AwaitLaunch is AwaitExcept for a process just started from program.
// Single-instance programs forward a new launch to their first process
// and exit, so once pid has exited without a window of its own, untaken
// windows of any process matching program count too. The fallback needs a
// Matcher (see WithMatcher).
func (r *Retrier) AwaitLaunch(ctx context.Context, pid uint32, program string, taken map[platform.WindowID]bool) (platform.WindowID, error) {
	return r.await(ctx, pid, program, taken)
}

func (r *Retrier) await(ctx context.Context, pid uint32, program string, taken map[platform.WindowID]bool) (platform.WindowID, error) {
	for attempt := 1; ; attempt++ {
		targets := procs.NewSet(pid)
		if r.policy.FollowDescendants && r.tree != nil {
			desc, err := r.tree.Descendants(targets)
			if err != nil {
				return 0, err
			}
			targets = targets.Union(desc)
		}

		windows, err := r.enum.WindowsFor(targets)
		if err != nil {
			r.logger.Warn("window enumeration failed", "pid", pid, "attempt", attempt, "error", err)
		}
		for _, id := range windows {
			if !taken[id] {
				r.logger.Debug("window found", "pid", pid, "window", id, "attempt", attempt)
				return id, nil
			}
		}

		if program != "" && r.exited(pid) {
			if id, ok := r.byProgram(program, taken); ok {
				r.logger.Debug("window found by program name", "pid", pid, "program", program, "window", id, "attempt", attempt)
				return id, nil
			}
		}

		if attempt >= r.policy.MaxAttempts {
			return 0, &TimeoutError{PID: pid, Attempts: attempt, Interval: r.policy.Interval}
		}

		r.logger.Debug("waiting for window",
			"pid", pid,
			"attempt", attempt,
			"max_attempts", r.policy.MaxAttempts,
		)
		if err := sleep(ctx, r.policy.Interval); err != nil {
			return 0, err
		}
	}
}

func (r *Retrier) exited(pid uint32) bool {
	if r.matcher == nil {
		return false
	}
	_, err := r.matcher.NameOf(pid)
	return errors.Is(err, procs.ErrProcessNotFound)
}

func (r *Retrier) byProgram(program string, taken map[platform.WindowID]bool) (platform.WindowID, bool) {
	pids, err := r.matcher.Match(program)
	if err != nil {
		r.logger.Debug("program match failed", "program", program, "error", err)
		return 0, false
	}
	windows, err := r.enum.WindowsFor(pids)
	if err != nil {
		r.logger.Warn("window enumeration failed", "program", program, "error", err)
	}
	for _, id := range windows {
		if !taken[id] {
			return id, true
		}
	}
	return 0, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
