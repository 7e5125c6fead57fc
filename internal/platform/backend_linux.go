//go:build linux

package platform

import (
	"fmt"
	"iter"
	"path/filepath"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/prometheus/procfs"

	"github.com/1broseidon/winarrange/internal/procs"
	"github.com/1broseidon/winarrange/internal/x11"
)

// LinuxBackend reads the process table from /proc and drives windows over
// an X11 connection.
type LinuxBackend struct {
	procTable
	conn *x11.Connection
}

// procTable is the /proc half of the backend. It needs no display.
type procTable struct {
	fs procfs.FS
}

var _ Backend = (*LinuxBackend)(nil)

// OpenProcesses returns a process table source that does not need a
// display connection.
func OpenProcesses() (procs.Source, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open /proc: %w", err)
	}
	return procTable{fs: fs}, nil
}

// Open returns the backend for the running platform.
func Open() (Backend, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("failed to open /proc: %w", err)
	}
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{procTable: procTable{fs: fs}, conn: conn}, nil
}

// Processes lists /proc. Processes that exit between the directory listing
// and reading their stat file are skipped.
func (t procTable) Processes() iter.Seq2[procs.Record, error] {
	return func(yield func(procs.Record, error) bool) {
		all, err := t.fs.AllProcs()
		if err != nil {
			yield(procs.Record{}, fmt.Errorf("list /proc: %w", err))
			return
		}
		for _, p := range all {
			stat, err := p.Stat()
			if err != nil {
				continue
			}
			rec := procs.Record{
				PID:            uint32(stat.PID),
				ParentPID:      uint32(stat.PPID),
				ExecutableName: executableName(p, stat.Comm),
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// executableName prefers the exe link, which is not truncated like comm
// but is unreadable for other users' processes.
func executableName(p procfs.Proc, comm string) string {
	if exe, err := p.Executable(); err == nil && exe != "" {
		return filepath.Base(exe)
	}
	return comm
}

func (b *LinuxBackend) Windows() iter.Seq2[WindowID, error] {
	return func(yield func(WindowID, error) bool) {
		clients, err := b.conn.ClientList()
		if err != nil {
			yield(0, err)
			return
		}
		for _, win := range clients {
			if !yield(WindowID(win), nil) {
				return
			}
		}
	}
}

func (b *LinuxBackend) IsMainWindow(id WindowID) bool {
	return b.conn.IsMainWindow(xproto.Window(id))
}

func (b *LinuxBackend) WindowPID(id WindowID) (uint32, error) {
	return b.conn.WindowPID(xproto.Window(id))
}

func (b *LinuxBackend) Restore(id WindowID) error {
	return b.conn.RestoreWindow(xproto.Window(id))
}

func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(
		xproto.Window(id),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

func (b *LinuxBackend) CursorPosition() (Point, error) {
	x, y, err := b.conn.PointerPosition()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func (b *LinuxBackend) WorkArea() (WorkArea, error) {
	m, err := b.conn.WorkArea()
	if err != nil {
		return WorkArea{}, err
	}
	return WorkArea{
		Left:   m.X,
		Top:    m.Y,
		Right:  m.X + m.Width,
		Bottom: m.Y + m.Height,
	}, nil
}

// Close disconnects from the X server.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}
