package actionlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLogger_WritesSortedDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Log(ActionPlace, 3, map[string]any{"y": 110, "x": 0, "program": "notepad"})
	l.Log(ActionPlaceFail, 4, map[string]any{"err": errors.New("window gone")})
	require.NoError(t, l.Close())

	lines := strings.Split(strings.TrimSpace(readLog(t, path)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2026-01-02 03:04:05 [PLACE] run=`+l.RunID()+` index=3 program="notepad" x=0 y=110`, lines[0])
	assert.Contains(t, lines[1], `[PLACE-FAIL]`)
	assert.Contains(t, lines[1], `err="window gone"`)
}

func TestLogger_LevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	l, err := New(Config{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 1})
	require.NoError(t, err)

	l.Log(ActionDiscover, 0, nil)
	l.Log(ActionRunStart, -1, map[string]any{"count": 2})
	require.NoError(t, l.Close())

	out := readLog(t, path)
	assert.NotContains(t, out, "DISCOVER")
	assert.Contains(t, out, "[RUN-START]")
	assert.NotContains(t, out, "index=")
}

func TestLogger_DisabledAndNil(t *testing.T) {
	var nilLogger *Logger
	nilLogger.Log(ActionSpawn, 0, nil)
	require.NoError(t, nilLogger.Close())
	assert.Empty(t, nilLogger.RunID())

	l, err := New(Config{Enabled: false})
	require.NoError(t, err)
	l.Log(ActionSpawn, 0, nil)
	assert.NotEmpty(t, l.RunID())
	require.NoError(t, l.Close())
}

func TestLogger_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 1024*1024)), 0o600))

	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	require.NoError(t, err)
	l.Log(ActionSpawn, 0, map[string]any{"pid": 42})
	require.NoError(t, l.Close())

	rotated, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.EqualValues(t, 1024*1024, rotated.Size())
	assert.Contains(t, readLog(t, path), "pid=42")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}
