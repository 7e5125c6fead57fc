package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/winarrange/internal/config"
	"github.com/1broseidon/winarrange/internal/engine"
	"github.com/1broseidon/winarrange/internal/prompt"
	"github.com/1broseidon/winarrange/internal/tiling"
)

// gridFlags are the layout options shared by arrange and spawn.
type gridFlags struct {
	path        string
	profile     string
	width       int
	height      int
	maxH        int
	maxV        int
	hSpacing    int
	vSpacing    int
	auto        bool
	origin      string
	interactive bool

	set map[string]bool
}

func (g *gridFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.path, "path", "", "Config file path (default: ~/.config/winarrange/config.yaml)")
	fs.StringVar(&g.profile, "profile", "", "Arrangement profile (default: default_profile from config)")
	fs.IntVar(&g.width, "width", 0, "Window width in pixels")
	fs.IntVar(&g.height, "height", 0, "Window height in pixels")
	fs.IntVar(&g.maxH, "max-h", 0, "Windows per row")
	fs.IntVar(&g.maxV, "max-v", 0, "Number of rows")
	fs.IntVar(&g.hSpacing, "h-spacing", 0, "Horizontal gap between windows (may be negative)")
	fs.IntVar(&g.vSpacing, "v-spacing", 0, "Vertical gap between windows (may be negative)")
	fs.BoolVar(&g.auto, "auto", false, "Derive rows and columns from the window count")
	fs.StringVar(&g.origin, "origin", "", "Top-left corner of the grid as X,Y (default: capture the mouse)")
	fs.BoolVar(&g.interactive, "i", false, "Prompt for grid values not given as flags")
	fs.BoolVar(&g.interactive, "interactive", false, "Prompt for grid values not given as flags")
}

// parsed records which flags were given explicitly. Call after fs.Parse.
func (g *gridFlags) parsed(fs *flag.FlagSet) {
	g.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { g.set[f.Name] = true })
}

// resolve layers flags, prompts and --auto over the selected profile.
func (g *gridFlags) resolve(cfg *config.Config, count int, p *prompt.Prompter) (tiling.Grid, error) {
	profile, err := cfg.Profile(g.profile)
	if err != nil {
		return tiling.Grid{}, err
	}
	grid := profile.Grid()

	fields := []struct {
		flag  string
		title string
		value int
		dst   *int
	}{
		{"width", "Window width:", g.width, &grid.WindowWidth},
		{"height", "Window height:", g.height, &grid.WindowHeight},
		{"max-h", "Max horizontal stack:", g.maxH, &grid.MaxHorizontal},
		{"max-v", "Max vertical stack:", g.maxV, &grid.MaxVertical},
		{"h-spacing", "Horizontal spacing:", g.hSpacing, &grid.HorizontalSpacing},
		{"v-spacing", "Vertical spacing:", g.vSpacing, &grid.VerticalSpacing},
	}
	for _, f := range fields {
		switch {
		case g.set[f.flag]:
			*f.dst = f.value
		case g.auto && (f.flag == "max-h" || f.flag == "max-v"):
		case g.interactive:
			v, err := p.Int(f.title)
			if err != nil {
				return tiling.Grid{}, err
			}
			*f.dst = v
		}
	}

	if g.auto {
		cols, rows := tiling.AutoStacks(count)
		if !g.set["max-h"] {
			grid.MaxHorizontal = cols
		}
		if !g.set["max-v"] {
			grid.MaxVertical = rows
		}
	}
	return grid, grid.Validate()
}

// resolveOrigin returns the --origin value, or asks the user to point at
// the spot and reads the cursor. Either way the origin is checked against
// the work area.
func (g *gridFlags) resolveOrigin(eng *engine.Engine, p *prompt.Prompter) (tiling.Position, error) {
	if g.origin != "" {
		origin, err := parseOrigin(g.origin)
		if err != nil {
			return tiling.Position{}, err
		}
		if err := eng.CheckOrigin(origin); err != nil {
			return tiling.Position{}, err
		}
		return origin, nil
	}

	if err := p.WaitEnter("Move the mouse to where the first window should go, then press Enter."); err != nil {
		return tiling.Position{}, err
	}
	return eng.CursorOrigin()
}

func parseOrigin(s string) (tiling.Position, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return tiling.Position{}, fmt.Errorf("invalid origin %q: want X,Y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return tiling.Position{}, fmt.Errorf("invalid origin x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return tiling.Position{}, fmt.Errorf("invalid origin y %q: %w", ys, err)
	}
	return tiling.Position{X: x, Y: y}, nil
}
