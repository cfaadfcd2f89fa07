package mcp

import "github.com/1broseidon/tilecore/internal/ipc"

// EmptyInput is the input of tools that take no arguments.
type EmptyInput struct{}

// TargetInput is the input for the focus and swap tools.
type TargetInput struct {
	Target string `json:"target" jsonschema:"One of up, down or master"`
}

// SendLayoutMessageInput is the input for the send_layout_message tool.
type SendLayoutMessageInput struct {
	Message   string `json:"message" jsonschema:"Layout message, e.g. next or tree-expand-towards:left"`
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace tag (default: the current workspace)"`
}

// SwitchWorkspaceInput is the input for the switch_workspace tool.
type SwitchWorkspaceInput struct {
	Workspace string `json:"workspace" jsonschema:"Workspace tag to show"`
	Screen    *int   `json:"screen,omitempty" jsonschema:"Screen ID (default: the current screen)"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Workspace string `json:"workspace" jsonschema:"Destination workspace tag"`
	Window    uint32 `json:"window,omitempty" jsonschema:"Window ID (default: the focused window)"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	Window uint32 `json:"window" jsonschema:"Window ID"`
}

// ApplyLayoutInput is the input for the apply_layout tool.
type ApplyLayoutInput struct {
	Screen *int `json:"screen,omitempty" jsonschema:"Screen ID (default: the current screen)"`
}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout    string `json:"layout" jsonschema:"Configured layout name"`
	Workspace string `json:"workspace,omitempty" jsonschema:"Workspace tag (default: the current workspace)"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []ipc.WorkspaceInfo `json:"workspaces"`
}

// ActionOutput is returned by tools that change state; it echoes the
// resulting status so callers need not query it separately.
type ActionOutput struct {
	OK     bool           `json:"ok"`
	Status ipc.StatusData `json:"status"`
}
