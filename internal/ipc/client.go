package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilecore/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithSocket(socketPath)
}

// NewClientWithSocket creates a client for an explicit socket path.
func NewClientWithSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with payload and decodes the response data into out when
// out is non-nil.
func (c *Client) call(cmd CommandType, payload, out interface{}) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWorkspaces retrieves every workspace, visible ones first.
func (c *Client) ListWorkspaces() ([]WorkspaceInfo, error) {
	var data WorkspacesData
	if err := c.call(CommandListWorkspaces, nil, &data); err != nil {
		return nil, err
	}
	return data.Workspaces, nil
}

// ListLayouts retrieves the configured layout names.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var data LayoutsData
	if err := c.call(CommandListLayouts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Focus moves focus within the current workspace.
func (c *Client) Focus(target Target) error {
	return c.call(CommandFocus, TargetPayload{Target: target}, nil)
}

// Swap moves the focused window within the current workspace.
func (c *Client) Swap(target Target) error {
	return c.call(CommandSwap, TargetPayload{Target: target}, nil)
}

// SendMessage sends a layout message, e.g. "tree-rotate", to tag (or the
// current workspace when tag is empty).
func (c *Client) SendMessage(tag, message string) error {
	return c.call(CommandSendMessage, SendMessagePayload{Tag: tag, Message: message}, nil)
}

// SwitchWorkspace shows tag on screen (or the current screen when nil).
func (c *Client) SwitchWorkspace(screen *int, tag string) error {
	return c.call(CommandSwitchWorkspace, SwitchWorkspacePayload{Screen: screen, Tag: tag}, nil)
}

// MoveWindow moves window (or the focused window when zero) to tag.
func (c *Client) MoveWindow(window uint32, tag string) error {
	return c.call(CommandMoveWindow, MoveWindowPayload{Window: window, Tag: tag}, nil)
}

// FocusWindow focuses window on whichever workspace holds it.
func (c *Client) FocusWindow(window uint32) error {
	return c.call(CommandFocusWindow, FocusWindowPayload{Window: window}, nil)
}

// ApplyLayout returns the placements of the workspace on screen (or the
// current screen when nil).
func (c *Client) ApplyLayout(screen *int) (*PlacementsData, error) {
	var data PlacementsData
	if err := c.call(CommandApplyLayout, ApplyLayoutPayload{Screen: screen}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SetLayout replaces tag's layout (or the current one's when tag is empty)
// with the named configured layout.
func (c *Client) SetLayout(tag, layoutName string) error {
	return c.call(CommandSetLayout, SetLayoutPayload{Tag: tag, LayoutName: layoutName}, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
