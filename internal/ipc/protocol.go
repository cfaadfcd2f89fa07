package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tilecore/internal/layout"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload          CommandType = "RELOAD"
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandListWorkspaces  CommandType = "LIST_WORKSPACES"
	CommandListLayouts     CommandType = "LIST_LAYOUTS"
	CommandFocus           CommandType = "FOCUS"
	CommandSwap            CommandType = "SWAP"
	CommandSendMessage     CommandType = "SEND_MESSAGE"
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandMoveWindow      CommandType = "MOVE_WINDOW"
	CommandFocusWindow     CommandType = "FOCUS_WINDOW"
	CommandApplyLayout     CommandType = "APPLY_LAYOUT"
	CommandSetLayout       CommandType = "SET_LAYOUT"
)

// Target selects a neighbour of the focused window for FOCUS and SWAP.
type Target string

const (
	TargetUp     Target = "up"
	TargetDown   Target = "down"
	TargetMaster Target = "master"
)

// ParseTarget validates a FOCUS/SWAP target.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetUp, TargetDown, TargetMaster:
		return t, nil
	default:
		return "", fmt.Errorf("invalid target %q (valid: up, down, master)", s)
	}
}

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentScreen int    `json:"current_screen"`
	CurrentTag    string `json:"current_tag"`
	Layout        string `json:"layout"`
	Focused       uint32 `json:"focused,omitempty"`
	WindowCount   int    `json:"window_count"`
	ScreenCount   int    `json:"screen_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// WorkspaceInfo describes one workspace in LIST_WORKSPACES.
type WorkspaceInfo struct {
	ID      int      `json:"id"`
	Tag     string   `json:"tag"`
	Layout  string   `json:"layout"`
	Screen  *int     `json:"screen,omitempty"`
	Current bool     `json:"current,omitempty"`
	Focused uint32   `json:"focused,omitempty"`
	Windows []uint32 `json:"windows,omitempty"`
}

type WorkspacesData struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
}

// PlacementsData is the result of APPLY_LAYOUT.
type PlacementsData struct {
	Screen     int                `json:"screen"`
	Tag        string             `json:"tag"`
	ScreenRect layout.Rect        `json:"screen_rect"`
	Placements []layout.Placement `json:"placements"`
}

type TargetPayload struct {
	Target Target `json:"target"`
}

// SendMessagePayload targets the current workspace when Tag is empty.
type SendMessagePayload struct {
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// SwitchWorkspacePayload targets the current screen when Screen is nil.
type SwitchWorkspacePayload struct {
	Screen *int   `json:"screen,omitempty"`
	Tag    string `json:"tag"`
}

// MoveWindowPayload moves the focused window when Window is zero.
type MoveWindowPayload struct {
	Window uint32 `json:"window,omitempty"`
	Tag    string `json:"tag"`
}

type FocusWindowPayload struct {
	Window uint32 `json:"window"`
}

// ApplyLayoutPayload targets the current screen when Screen is nil.
type ApplyLayoutPayload struct {
	Screen *int `json:"screen,omitempty"`
}

// SetLayoutPayload replaces a workspace's layout with a configured one.
type SetLayoutPayload struct {
	Tag        string `json:"tag,omitempty"`
	LayoutName string `json:"layout_name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// NewRequest builds a request, marshalling payload when it is non-nil.
func NewRequest(cmd CommandType, payload interface{}) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
