//go:build windows

package platform

import (
	"errors"
	"fmt"
	"iter"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/winarrange/internal/procs"
)

// WindowsBackend drives user32 and the Toolhelp32 process snapshot.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// Open returns the backend for the running platform.
func Open() (Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return &WindowsBackend{}, nil
}

// OpenProcesses returns a process table source. The Toolhelp32 snapshot
// does not need user32.
func OpenProcesses() (procs.Source, error) {
	return &WindowsBackend{}, nil
}

// Processes walks a fresh Toolhelp32 process snapshot. The snapshot handle
// is closed when iteration ends, including early exit.
func (b *WindowsBackend) Processes() iter.Seq2[procs.Record, error] {
	return func(yield func(procs.Record, error) bool) {
		snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
		if err != nil {
			yield(procs.Record{}, fmt.Errorf("CreateToolhelp32Snapshot: %w", err))
			return
		}
		defer windows.CloseHandle(snapshot)

		var entry windows.ProcessEntry32
		entry.Size = uint32(unsafe.Sizeof(entry))

		for err = windows.Process32First(snapshot, &entry); err == nil; err = windows.Process32Next(snapshot, &entry) {
			rec := procs.Record{
				PID:            entry.ProcessID,
				ParentPID:      entry.ParentProcessID,
				ExecutableName: windows.UTF16ToString(entry.ExeFile[:]),
			}
			if !yield(rec, nil) {
				return
			}
		}
		if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			yield(procs.Record{}, fmt.Errorf("Process32Next: %w", err))
		}
	}
}

// Windows enumerates top-level windows in Z-order. The handles are gathered
// by EnumWindows into a call-local slice and then yielded.
func (b *WindowsBackend) Windows() iter.Seq2[WindowID, error] {
	return func(yield func(WindowID, error) bool) {
		handles, err := enumTopLevelWindows()
		if err != nil {
			yield(0, fmt.Errorf("EnumWindows: %w", err))
			return
		}
		for _, hwnd := range handles {
			if !yield(WindowID(hwnd), nil) {
				return
			}
		}
	}
}

// IsMainWindow accepts visible windows that are their own root ancestor and
// do not carry WS_EX_TOOLWINDOW.
func (b *WindowsBackend) IsMainWindow(id WindowID) bool {
	hwnd := windows.HWND(id)
	if !windows.IsWindowVisible(hwnd) {
		return false
	}
	if rootAncestor(hwnd) != hwnd {
		return false
	}
	return extendedStyle(hwnd)&wsExToolWindow == 0
}

func (b *WindowsBackend) WindowPID(id WindowID) (uint32, error) {
	pid, err := windowThreadProcessID(windows.HWND(id))
	if err != nil {
		return 0, fmt.Errorf("GetWindowThreadProcessId(%#x): %w", uintptr(id), err)
	}
	return pid, nil
}

// Restore issues SW_RESTORE. ShowWindow reports the previous visibility
// rather than success, so staleness is checked with IsWindow instead.
func (b *WindowsBackend) Restore(id WindowID) error {
	hwnd := windows.HWND(id)
	if !windows.IsWindow(hwnd) {
		return fmt.Errorf("window %#x no longer exists", uintptr(id))
	}
	showWindow(hwnd, swRestore)
	return nil
}

func (b *WindowsBackend) MoveResize(id WindowID, bounds Rect) error {
	if err := moveWindow(windows.HWND(id), bounds.X, bounds.Y, bounds.Width, bounds.Height); err != nil {
		return fmt.Errorf("MoveWindow(%#x): %w", uintptr(id), err)
	}
	return nil
}

func (b *WindowsBackend) CursorPosition() (Point, error) {
	p, err := cursorPos()
	if err != nil {
		return Point{}, fmt.Errorf("GetCursorPos: %w", err)
	}
	return Point{X: int(p.X), Y: int(p.Y)}, nil
}

func (b *WindowsBackend) WorkArea() (WorkArea, error) {
	rc, err := foregroundMonitorWorkArea()
	if err != nil {
		return WorkArea{}, fmt.Errorf("monitor work area: %w", err)
	}
	return WorkArea{
		Left:   int(rc.Left),
		Top:    int(rc.Top),
		Right:  int(rc.Right),
		Bottom: int(rc.Bottom),
	}, nil
}

func (b *WindowsBackend) Close() error { return nil }
