// Package discovery maps processes to their top-level application windows.
package discovery

import (
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/procs"
)

// WindowSystem is the part of the platform backend discovery reads.
type WindowSystem interface {
	Windows() iter.Seq2[platform.WindowID, error]
	IsMainWindow(id platform.WindowID) bool
	WindowPID(id platform.WindowID) (uint32, error)
}

// Enumerator filters the OS window list down to main windows owned by a
// set of processes. Windows owned by this process are never returned.
type Enumerator struct {
	ws      WindowSystem
	selfPID uint32
	logger  *slog.Logger
}

// NewEnumerator returns an Enumerator over ws. A nil logger discards output.
func NewEnumerator(ws WindowSystem, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enumerator{
		ws:      ws,
		selfPID: uint32(os.Getpid()),
		logger:  logger,
	}
}

// owned yields main windows together with their owning pid.
func (e *Enumerator) owned() iter.Seq2[ownedWindow, error] {
	return func(yield func(ownedWindow, error) bool) {
		for id, err := range e.ws.Windows() {
			if err != nil {
				yield(ownedWindow{}, err)
				return
			}
			if !e.ws.IsMainWindow(id) {
				continue
			}
			pid, err := e.ws.WindowPID(id)
			if err != nil {
				// Closed between enumeration and lookup.
				e.logger.Debug("skipping window without owner", "window", id, "error", err)
				continue
			}
			if pid == e.selfPID {
				continue
			}
			if !yield(ownedWindow{id: id, pid: pid}, nil) {
				return
			}
		}
	}
}

type ownedWindow struct {
	id  platform.WindowID
	pid uint32
}

// WindowsFor returns the main windows owned by any pid in pids, in OS
// enumeration order. No matching window is an empty result, not an error;
// only a failure of the enumeration itself is reported. An empty pid set
// returns immediately without enumerating.
func (e *Enumerator) WindowsFor(pids procs.Set) ([]platform.WindowID, error) {
	if len(pids) == 0 {
		return nil, nil
	}

	var out []platform.WindowID
	for w, err := range e.owned() {
		if err != nil {
			return nil, fmt.Errorf("enumerate windows: %w", err)
		}
		if pids.Contains(w.pid) {
			out = append(out, w.id)
		}
	}
	return out, nil
}
