package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilecore/internal/ipc"
)

const (
	ServerName    = "tilecore"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWorkspaces() ([]ipc.WorkspaceInfo, error)
	ListLayouts() (*ipc.LayoutsData, error)
	Focus(target ipc.Target) error
	Swap(target ipc.Target) error
	SendMessage(tag, message string) error
	SwitchWorkspace(screen *int, tag string) error
	MoveWindow(window uint32, tag string) error
	FocusWindow(window uint32) error
	ApplyLayout(screen *int) (*ipc.PlacementsData, error)
	SetLayout(tag, layoutName string) error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes the daemon's workspace commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards tool calls to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
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
		Name:        "get_status",
		Description: "Report the current screen, the focused workspace and window, and the layout in use.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List every workspace with its layout, the screen showing it (if any) and its windows in stack order.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the configured layout names that set_layout accepts.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus",
		Description: "Move focus in the current workspace to the previous (up), next (down) or first (master) window. Focus wraps around.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap",
		Description: "Swap the focused window with its previous (up) or next (down) neighbour, or move it to the master position (master).",
	}, s.handleSwap)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_layout_message",
		Description: "Send a layout message to a workspace's layout, e.g. next, prev, increase, decrease, increase-gap, tree-rotate, tree-swap, tree-expand-towards:left or tree-shrink-from:up. Unsupported messages are ignored by the layout.",
	}, s.handleSendLayoutMessage)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Show a workspace on a screen (default: the current screen). A workspace visible elsewhere swaps places with the one on the target screen.",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window (default: the focused window) to another workspace.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window by ID on whichever workspace holds it.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_layout",
		Description: "Return the rectangles the layout assigns to each window on a screen (default: the current screen) without changing anything.",
	}, s.handleApplyLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Replace a workspace's layout (default: the current workspace) with a configured layout by name.",
	}, s.handleSetLayout)
}
