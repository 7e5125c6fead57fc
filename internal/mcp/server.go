package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winarrange/internal/config"
	"github.com/1broseidon/winarrange/internal/engine"
)

const (
	ServerName    = "winarrange"
	ServerVersion = "0.1.0"
)

// Server exposes process discovery and window arrangement as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
	config    *config.Config
	logger    *slog.Logger
}

// NewServer creates an MCP server over eng.
func NewServer(eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine: eng,
		config: cfg,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_processes",
		Description: "List the IDs of running processes whose executable matches a name. Matching ignores case and directories, accepts a missing .exe suffix, and falls back to substring matches.",
	}, s.handleFindProcesses)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_descendants",
		Description: "List every process transitively started by the given processes, excluding the given processes themselves.",
	}, s.handleFindDescendants)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_windows",
		Description: "List the visible top-level application windows owned by the given processes. Tool windows, dialogs and hidden windows are skipped.",
	}, s.handleFindWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "await_window",
		Description: "Poll until a process (or, with follow_descendants, one of its children) shows a main window, or fail after max_attempts polls.",
	}, s.handleAwaitWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "plan_grid",
		Description: "Compute row-major grid positions for a number of windows from a profile. Windows beyond the grid capacity are reported as dropped. Does not touch any window.",
	}, s.handlePlanGrid)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_program",
		Description: "Find every main window of a program and restore, resize and move them into a grid starting at the origin. Returns one result per window; a failure on one window does not stop the others.",
	}, s.handleArrangeProgram)
}
