package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winarrange/internal/arrange"
	"github.com/1broseidon/winarrange/internal/spawn"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// runReport summarises one arrange or spawn run.
type runReport struct {
	program  string
	found    int
	dropped  int
	launches []spawn.Result
	outcomes []arrange.Outcome
}

func (r runReport) failures() int {
	n := len(arrange.Failed(r.outcomes))
	for _, l := range r.launches {
		if l.Err != nil {
			n++
		}
	}
	return n
}

func (r runReport) placed() int {
	return len(r.outcomes) - len(arrange.Failed(r.outcomes))
}

func (r runReport) render() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d windows found", r.program, r.found)))
	sb.WriteString("\n")

	for _, l := range r.launches {
		if l.Err == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s launch %d: %v\n", failStyle.Render("✗"), l.Index, l.Err))
	}
	for _, o := range r.outcomes {
		mark := okStyle.Render("✓")
		detail := dimStyle.Render(fmt.Sprintf("at %d,%d", o.Position.X, o.Position.Y))
		if o.Err != nil {
			mark = failStyle.Render("✗")
			detail = o.Err.Error()
		}
		sb.WriteString(fmt.Sprintf("  %s window %d (0x%x) %s\n", mark, o.Index, uintptr(o.Window), detail))
	}
	if r.dropped > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d windows did not fit the grid", r.dropped)))
		sb.WriteString("\n")
	}

	summary := fmt.Sprintf("%d placed, %d failed", r.placed(), r.failures())
	if r.failures() > 0 {
		sb.WriteString(failStyle.Render(summary))
	} else {
		sb.WriteString(okStyle.Render(summary))
	}
	sb.WriteString("\n")
	return sb.String()
}
