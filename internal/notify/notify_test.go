package notify

import (
	"runtime"
	"testing"

	"github.com/go-toast/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	title, msg := Summary("notepad", 4, 0)
	assert.Equal(t, "notepad arranged", title)
	assert.Equal(t, "4 windows placed", msg)

	_, msg = Summary("notepad", 3, 2)
	assert.Equal(t, "3 windows placed, 2 failed", msg)
}

func TestDone_DisabledNeverPushes(t *testing.T) {
	n := New(false)
	n.push = func(toast.Notification) error {
		t.Fatal("push called on disabled notifier")
		return nil
	}
	require.NoError(t, n.Done("app", 1, 0))

	var nilNotifier *Notifier
	require.NoError(t, nilNotifier.Done("app", 1, 0))
}

func TestDone_PushesOnWindowsOnly(t *testing.T) {
	var pushed []toast.Notification
	n := New(true)
	n.push = func(tn toast.Notification) error {
		pushed = append(pushed, tn)
		return nil
	}

	require.NoError(t, n.Done("app", 2, 1))
	if runtime.GOOS != "windows" {
		assert.False(t, n.IsSupported())
		assert.Empty(t, pushed)
		return
	}
	require.Len(t, pushed, 1)
	assert.Equal(t, "winarrange", pushed[0].AppID)
	assert.Equal(t, toast.IM, pushed[0].Audio)
}
