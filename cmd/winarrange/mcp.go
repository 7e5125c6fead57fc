package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/winarrange/internal/mcp"
)

func printMCPUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  winarrange mcp serve [--path PATH]   Start MCP server (stdio transport)")
}

func runMCP(args []string) int {
	if len(args) == 0 || isHelp(args) {
		printMCPUsage()
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp subcommand: %s\n", args[0])
		printMCPUsage()
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winarrange/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sess, err := openSession(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer sess.Close()

	ctx, cancel := signalContext()
	defer cancel()

	server := mcp.NewServer(sess.engine, sess.cfg, sess.logger)
	sess.logger.Info("mcp server starting", "transport", "stdio")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "mcp server error: %v\n", err)
		return 1
	}
	return 0
}
