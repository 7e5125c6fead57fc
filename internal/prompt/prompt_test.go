package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt_RetriesUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("abc\n\n 42 \n"), &out)

	n, err := p.Int("Window width:")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
	assert.Equal(t, 3, strings.Count(out.String(), "Window width:"))
	assert.Contains(t, out.String(), "whole number")
}

func TestInt_NegativeAllowed(t *testing.T) {
	p := NewLine(strings.NewReader("-15\n"), &bytes.Buffer{})
	n, err := p.Int("Spacing:")
	require.NoError(t, err)
	assert.Equal(t, -15, n)
}

func TestString_EOFWithoutAnswerAborts(t *testing.T) {
	p := NewLine(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.String("Program:")
	require.ErrorIs(t, err, ErrAborted)
}

func TestString_LastLineWithoutNewline(t *testing.T) {
	p := NewLine(strings.NewReader("notepad.exe"), &bytes.Buffer{})
	s, err := p.String("Program:")
	require.NoError(t, err)
	assert.Equal(t, "notepad.exe", s)
}

func TestConfirm(t *testing.T) {
	p := NewLine(strings.NewReader("CONFIRM\nconfirm\n"), &bytes.Buffer{})

	ok, err := p.Confirm("Launch 50 windows?", "CONFIRM")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("Launch 50 windows?", "CONFIRM")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWaitEnter(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("\n"), &out)
	require.NoError(t, p.WaitEnter("Move the mouse to the top-left corner and press Enter"))
	assert.Contains(t, out.String(), "press Enter")
}
