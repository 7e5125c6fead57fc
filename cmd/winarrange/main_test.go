package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winarrange/internal/arrange"
	"github.com/1broseidon/winarrange/internal/config"
	"github.com/1broseidon/winarrange/internal/platform"
	"github.com/1broseidon/winarrange/internal/prompt"
	"github.com/1broseidon/winarrange/internal/spawn"
	"github.com/1broseidon/winarrange/internal/tiling"
)

func TestParseOrigin(t *testing.T) {
	got, err := parseOrigin("120, -40")
	require.NoError(t, err)
	assert.Equal(t, tiling.Position{X: 120, Y: -40}, got)

	for _, bad := range []string{"", "12", "a,3", "3,b"} {
		_, err := parseOrigin(bad)
		assert.Error(t, err, "origin %q", bad)
	}
}

func TestSplitProgramArgs(t *testing.T) {
	program, args := splitProgramArgs([]string{"notepad.exe", "--", "a.txt", "--", "b"})
	assert.Equal(t, "notepad.exe", program)
	assert.Equal(t, []string{"a.txt", "--", "b"}, args)

	program, args = splitProgramArgs(nil)
	assert.Empty(t, program)
	assert.Nil(t, args)

	program, args = splitProgramArgs([]string{"xterm", "-e", "top"})
	assert.Equal(t, "xterm", program)
	assert.Equal(t, []string{"-e", "top"}, args)
}

func TestLaunchCountCappedByGrid(t *testing.T) {
	grid := tiling.Grid{MaxHorizontal: 3, MaxVertical: 2, WindowWidth: 10, WindowHeight: 10}
	assert.Equal(t, 6, launchCount(9, grid))
	assert.Equal(t, 4, launchCount(4, grid))

	gf := parseGridFlags(t, "--auto")
	auto, err := gf.resolve(config.DefaultConfig(), 30, prompt.NewLine(strings.NewReader(""), io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 30, launchCount(30, auto))
}

func parseGridFlags(t *testing.T, args ...string) *gridFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var gf gridFlags
	gf.register(fs)
	require.NoError(t, fs.Parse(args))
	gf.parsed(fs)
	return &gf
}

func TestGridFlags_ProfileWithOverrides(t *testing.T) {
	gf := parseGridFlags(t, "--profile", "large", "--width", "640", "--h-spacing", "-4")
	grid, err := gf.resolve(config.DefaultConfig(), 3, prompt.NewLine(strings.NewReader(""), io.Discard))
	require.NoError(t, err)

	assert.Equal(t, tiling.Grid{
		MaxHorizontal:     2,
		MaxVertical:       2,
		HorizontalSpacing: -4,
		VerticalSpacing:   10,
		WindowWidth:       640,
		WindowHeight:      600,
	}, grid)
}

func TestGridFlags_Auto(t *testing.T) {
	gf := parseGridFlags(t, "--auto")
	grid, err := gf.resolve(config.DefaultConfig(), 5, prompt.NewLine(strings.NewReader(""), io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 3, grid.MaxHorizontal)
	assert.Equal(t, 2, grid.MaxVertical)
	assert.Equal(t, 308, grid.WindowWidth)

	gf = parseGridFlags(t, "--auto", "--max-h", "5")
	grid, err = gf.resolve(config.DefaultConfig(), 5, prompt.NewLine(strings.NewReader(""), io.Discard))
	require.NoError(t, err)
	assert.Equal(t, 5, grid.MaxHorizontal)
	assert.Equal(t, 2, grid.MaxVertical)
}

func TestGridFlags_InteractivePromptsForMissingValues(t *testing.T) {
	gf := parseGridFlags(t, "-i", "--width", "100")
	in := strings.NewReader("200\nabc\n2\n3\n-5\n0\n")
	grid, err := gf.resolve(config.DefaultConfig(), 4, prompt.NewLine(in, io.Discard))
	require.NoError(t, err)

	assert.Equal(t, tiling.Grid{
		MaxHorizontal:     2,
		MaxVertical:       3,
		HorizontalSpacing: -5,
		VerticalSpacing:   0,
		WindowWidth:       100,
		WindowHeight:      200,
	}, grid)
}

func TestGridFlags_InvalidGrid(t *testing.T) {
	gf := parseGridFlags(t, "--max-v", "0")
	_, err := gf.resolve(config.DefaultConfig(), 4, prompt.NewLine(strings.NewReader(""), io.Discard))
	assert.ErrorIs(t, err, tiling.ErrInvalidConfig)

	gf = parseGridFlags(t, "--profile", "nope")
	_, err = gf.resolve(config.DefaultConfig(), 4, prompt.NewLine(strings.NewReader(""), io.Discard))
	assert.Error(t, err)
}

func TestRunReport(t *testing.T) {
	r := runReport{
		program: "notepad",
		found:   3,
		dropped: 1,
		launches: []spawn.Result{
			{Index: 0, PID: 10, Window: 0xa},
			{Index: 1, Err: errors.New("boom")},
		},
		outcomes: []arrange.Outcome{
			{Index: 0, Window: 0xa, Position: tiling.Position{X: 5, Y: 6}},
			{Index: 1, Window: 0xb, Err: &arrange.PlacementError{Index: 1, Window: 0xb, Op: "move", Err: errors.New("denied")}},
		},
	}

	assert.Equal(t, 1, r.placed())
	assert.Equal(t, 2, r.failures())

	out := r.render()
	assert.Contains(t, out, "notepad: 3 windows found")
	assert.Contains(t, out, "launch 1: boom")
	assert.Contains(t, out, "window 0 (0xa)")
	assert.Contains(t, out, "at 5,6")
	assert.Contains(t, out, "denied")
	assert.Contains(t, out, "1 windows did not fit the grid")
	assert.Contains(t, out, "1 placed, 2 failed")
}

func TestFormatSource(t *testing.T) {
	assert.Equal(t, "default", formatSource(config.Source{Kind: config.SourceDefault}))
	assert.Equal(t, "builtin:large", formatSource(config.Source{Kind: config.SourceBuiltin, Name: "large"}))
	assert.Equal(t, "env:WINARRANGE_PROFILE", formatSource(config.Source{Kind: config.SourceEnv, Name: "WINARRANGE_PROFILE"}))
	assert.Equal(t, "file:/tmp/c.yaml:3:5", formatSource(config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml", Line: 3, Column: 5}))
	assert.Equal(t, "file:/tmp/c.yaml", formatSource(config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml"}))
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseSlogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("bogus"))
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("default_profile: large\n"), 0o644))
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("profiles:\n  tiny:\n    window_width: 0\n"), 0o644))

	assert.Equal(t, 0, runConfig([]string{"validate", "--path", good}))
	assert.Equal(t, 1, runConfig([]string{"validate", "--path", bad}))
	assert.Equal(t, 2, runConfig([]string{"nope"}))
	assert.Equal(t, 2, runConfig(nil))
}

func TestRunReportFormatsHandles(t *testing.T) {
	r := runReport{outcomes: []arrange.Outcome{{Index: 0, Window: platform.WindowID(0x1f)}}}
	assert.Contains(t, r.render(), "0x1f")
}

func TestProcessCommandsNeedNoDisplay(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		t.Skip("no process table source on " + runtime.GOOS)
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	t.Setenv("DISPLAY", "")

	assert.Equal(t, 0, runName([]string{strconv.Itoa(os.Getpid())}))
	assert.Equal(t, 0, runPIDs([]string{filepath.Base(os.Args[0])}))
	assert.Equal(t, 1, runPIDs([]string{"no-such-program-winarrange-test"}))
	assert.Equal(t, 2, runName([]string{"abc"}))
}
