//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	// Calls that x/sys/windows does not wrap.
	procGetAncestor       = user32.NewProc("GetAncestor")
	procGetWindowLongPtrW = user32.NewProc("GetWindowLongPtrW")
	procGetWindowLongW    = user32.NewProc("GetWindowLongW")
	procShowWindow        = user32.NewProc("ShowWindow")
	procMoveWindow        = user32.NewProc("MoveWindow")
	procGetCursorPos      = user32.NewProc("GetCursorPos")
	procMonitorFromWindow = user32.NewProc("MonitorFromWindow")
	procGetMonitorInfoW   = user32.NewProc("GetMonitorInfoW")
)

const (
	gaRoot                  = 2
	gwlExStyle              = -20
	wsExToolWindow          = 0x00000080
	swRestore               = 9
	monitorDefaultToNearest = 2
)

type point struct {
	X int32
	Y int32
}

type monitorInfo struct {
	Size    uint32
	Monitor windows.Rect
	Work    windows.Rect
	Flags   uint32
}

// enumWindowsCallback is allocated once; callback slots are a finite
// process-wide resource. lparam carries a *[]windows.HWND owned by the caller.
var enumWindowsCallback = windows.NewCallback(func(hwnd windows.HWND, lparam uintptr) uintptr {
	handles := (*[]windows.HWND)(unsafe.Pointer(lparam))
	*handles = append(*handles, hwnd)
	return 1
})

func enumTopLevelWindows() ([]windows.HWND, error) {
	var handles []windows.HWND
	if err := windows.EnumWindows(enumWindowsCallback, unsafe.Pointer(&handles)); err != nil {
		return nil, err
	}
	return handles, nil
}

func rootAncestor(hwnd windows.HWND) windows.HWND {
	r1, _, _ := procGetAncestor.Call(uintptr(hwnd), gaRoot)
	return windows.HWND(r1)
}

func extendedStyle(hwnd windows.HWND) uintptr {
	index := int32(gwlExStyle)
	// GetWindowLongPtrW is only exported by 64-bit user32.
	proc := procGetWindowLongPtrW
	if proc.Find() != nil {
		proc = procGetWindowLongW
	}
	r1, _, _ := proc.Call(uintptr(hwnd), uintptr(index))
	return r1
}

func windowThreadProcessID(hwnd windows.HWND) (uint32, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil {
		return 0, err
	}
	return pid, nil
}

func showWindow(hwnd windows.HWND, cmd int) {
	procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
}

func moveWindow(hwnd windows.HWND, x, y, width, height int) error {
	r1, _, err := procMoveWindow.Call(
		uintptr(hwnd),
		uintptr(int32(x)),
		uintptr(int32(y)),
		uintptr(int32(width)),
		uintptr(int32(height)),
		1,
	)
	if r1 == 0 {
		return err
	}
	return nil
}

func cursorPos() (point, error) {
	var p point
	r1, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r1 == 0 {
		return point{}, err
	}
	return p, nil
}

func foregroundMonitorWorkArea() (windows.Rect, error) {
	hwnd := windows.GetForegroundWindow()
	hmon, _, err := procMonitorFromWindow.Call(uintptr(hwnd), monitorDefaultToNearest)
	if hmon == 0 {
		return windows.Rect{}, err
	}

	info := monitorInfo{}
	info.Size = uint32(unsafe.Sizeof(info))
	r1, _, err := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		return windows.Rect{}, err
	}
	return info.Work, nil
}
