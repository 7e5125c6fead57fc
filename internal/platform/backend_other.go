//go:build !linux && !windows

package platform

import "github.com/1broseidon/winarrange/internal/procs"

// OpenProcesses returns a process table source for the running platform.
func OpenProcesses() (procs.Source, error) {
	return nil, ErrUnsupported
}

// Open returns the backend for the running platform.
func Open() (Backend, error) {
	return nil, ErrUnsupported
}
