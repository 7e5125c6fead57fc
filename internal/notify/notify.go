// Package notify shows a desktop toast when an arrangement finishes.
package notify

import (
	"fmt"
	"runtime"

	"github.com/go-toast/toast"
)

const defaultAppID = "winarrange"

// Notifier pushes Windows toast notifications. On other platforms, or when
// disabled, every call is a no-op.
type Notifier struct {
	appID   string
	enabled bool
	push    func(toast.Notification) error
}

// New returns a Notifier. enabled comes from notify.enabled.
func New(enabled bool) *Notifier {
	return &Notifier{
		appID:   defaultAppID,
		enabled: enabled,
		push:    func(n toast.Notification) error { return n.Push() },
	}
}

// IsSupported reports whether toasts can be shown on this platform.
func (n *Notifier) IsSupported() bool {
	return runtime.GOOS == "windows"
}

// Summary builds the toast body for an arrangement of program.
func Summary(program string, arranged, failed int) (title, message string) {
	title = fmt.Sprintf("%s arranged", program)
	if failed == 0 {
		return title, fmt.Sprintf("%d windows placed", arranged)
	}
	return title, fmt.Sprintf("%d windows placed, %d failed", arranged, failed)
}

// Done reports the outcome of an arrangement.
func (n *Notifier) Done(program string, arranged, failed int) error {
	if n == nil || !n.enabled || !n.IsSupported() {
		return nil
	}
	title, message := Summary(program, arranged, failed)
	audio := toast.Default
	if failed > 0 {
		audio = toast.IM
	}
	return n.push(toast.Notification{
		AppID:   n.appID,
		Title:   title,
		Message: message,
		Audio:   audio,
	})
}
