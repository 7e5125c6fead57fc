package mcp

// FindProcessesInput is the input for the find_processes tool.
type FindProcessesInput struct {
	Name string `json:"name" jsonschema:"Executable name or path; matched case-insensitively on the final path component"`
}

// ProcessSetOutput lists process IDs in ascending order.
type ProcessSetOutput struct {
	PIDs []uint32 `json:"pids"`
}

// FindDescendantsInput is the input for the find_descendants tool.
type FindDescendantsInput struct {
	PIDs []uint32 `json:"pids" jsonschema:"Root process IDs; the roots themselves are not returned"`
}

// FindWindowsInput is the input for the find_windows tool.
type FindWindowsInput struct {
	PIDs []uint32 `json:"pids" jsonschema:"Process IDs whose main windows to list"`
}

// WindowsOutput lists window handles in enumeration order.
type WindowsOutput struct {
	Windows []uint64 `json:"windows"`
}

// AwaitWindowInput is the input for the await_window tool.
type AwaitWindowInput struct {
	PID               uint32 `json:"pid" jsonschema:"Process ID to wait for"`
	MaxAttempts       *int   `json:"max_attempts,omitempty" jsonschema:"Number of polls before giving up (config discovery.max_attempts when omitted)"`
	IntervalMS        *int   `json:"interval_ms,omitempty" jsonschema:"Milliseconds between polls (config discovery.interval when omitted)"`
	FollowDescendants *bool  `json:"follow_descendants,omitempty" jsonschema:"Also accept windows of the process's descendants"`
}

// AwaitWindowOutput is the output for the await_window tool.
type AwaitWindowOutput struct {
	PID    uint32 `json:"pid"`
	Window uint64 `json:"window"`
}

// GridInput selects a profile and optionally overrides its fields.
type GridInput struct {
	Profile           string `json:"profile,omitempty" jsonschema:"Profile name (config default_profile when omitted)"`
	WindowWidth       *int   `json:"window_width,omitempty" jsonschema:"Window width in pixels"`
	WindowHeight      *int   `json:"window_height,omitempty" jsonschema:"Window height in pixels"`
	MaxHorizontal     *int   `json:"max_horizontal_stack,omitempty" jsonschema:"Windows per row"`
	MaxVertical       *int   `json:"max_vertical_stack,omitempty" jsonschema:"Number of rows"`
	HorizontalSpacing *int   `json:"horizontal_spacing,omitempty" jsonschema:"Horizontal gap in pixels; negative overlaps"`
	VerticalSpacing   *int   `json:"vertical_spacing,omitempty" jsonschema:"Vertical gap in pixels; negative overlaps"`
	Auto              bool   `json:"auto,omitempty" jsonschema:"Derive rows and columns from the window count"`
}

// PlanGridInput is the input for the plan_grid tool.
type PlanGridInput struct {
	GridInput
	Count   int `json:"count" jsonschema:"Number of windows to place"`
	OriginX int `json:"origin_x" jsonschema:"X of the top-left corner of the grid"`
	OriginY int `json:"origin_y" jsonschema:"Y of the top-left corner of the grid"`
}

// Position is a planned window corner.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlanGridOutput is the output for the plan_grid tool.
type PlanGridOutput struct {
	Positions []Position `json:"positions"`
	Dropped   int        `json:"dropped"`
}

// ArrangeProgramInput is the input for the arrange_program tool.
type ArrangeProgramInput struct {
	GridInput
	Program     string `json:"program" jsonschema:"Executable name whose windows to arrange"`
	OriginX     *int   `json:"origin_x,omitempty" jsonschema:"X of the grid origin (current cursor when omitted)"`
	OriginY     *int   `json:"origin_y,omitempty" jsonschema:"Y of the grid origin (current cursor when omitted)"`
	Descendants bool   `json:"descendants,omitempty" jsonschema:"Include windows of descendant processes"`
}

// Placement is the result for one window.
type Placement struct {
	Index  int    `json:"index"`
	Window uint64 `json:"window"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Error  string `json:"error,omitempty"`
}

// ArrangeProgramOutput is the output for the arrange_program tool.
type ArrangeProgramOutput struct {
	RunID      string      `json:"run_id"`
	Found      int         `json:"found"`
	Dropped    int         `json:"dropped"`
	Placements []Placement `json:"placements"`
	Failed     int         `json:"failed"`
}
