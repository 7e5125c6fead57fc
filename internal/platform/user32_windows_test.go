//go:build windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func TestEnumTopLevelWindows(t *testing.T) {
	handles, err := enumTopLevelWindows()
	require.NoError(t, err)
	for _, h := range handles {
		assert.NotZero(t, h)
	}
}

func TestWindowThreadProcessID_InvalidHandle(t *testing.T) {
	_, err := windowThreadProcessID(windows.HWND(0))
	assert.Error(t, err)
}
