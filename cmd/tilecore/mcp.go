package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: tilecore mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'tilecore mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: tilecore mcp serve")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Start the MCP server on stdio. Tool calls are forwarded to the")
		fmt.Fprintln(os.Stdout, "running daemon over its IPC socket.")
		return 0
	}

	// stdout carries the protocol; logs go to stderr.
	logger := initLogger(slog.LevelWarn)

	ctx, cancel := signalContext()
	defer cancel()

	server := mcp.NewServer(ipc.NewClient())
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("mcp server failed", "error", err)
		return 1
	}
	return 0
}
