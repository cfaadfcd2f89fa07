package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilecore/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	wss, err := s.daemon.ListWorkspaces()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	return nil, ListWorkspacesOutput{Workspaces: wss}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.LayoutsData, error) {
	layouts, err := s.daemon.ListLayouts()
	if err != nil {
		return nil, ipc.LayoutsData{}, err
	}
	return nil, *layouts, nil
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args TargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	target, err := ipc.ParseTarget(strings.ToLower(strings.TrimSpace(args.Target)))
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return s.act(func() error { return s.daemon.Focus(target) })
}

func (s *Server) handleSwap(_ context.Context, _ *mcpsdk.CallToolRequest, args TargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	target, err := ipc.ParseTarget(strings.ToLower(strings.TrimSpace(args.Target)))
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return s.act(func() error { return s.daemon.Swap(target) })
}

func (s *Server) handleSendLayoutMessage(_ context.Context, _ *mcpsdk.CallToolRequest, args SendLayoutMessageInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if strings.TrimSpace(args.Message) == "" {
		return nil, ActionOutput{}, fmt.Errorf("message is required")
	}
	return s.act(func() error { return s.daemon.SendMessage(args.Workspace, args.Message) })
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchWorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Workspace == "" {
		return nil, ActionOutput{}, fmt.Errorf("workspace is required")
	}
	return s.act(func() error { return s.daemon.SwitchWorkspace(args.Screen, args.Workspace) })
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Workspace == "" {
		return nil, ActionOutput{}, fmt.Errorf("workspace is required")
	}
	return s.act(func() error { return s.daemon.MoveWindow(args.Window, args.Workspace) })
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Window == 0 {
		return nil, ActionOutput{}, fmt.Errorf("window is required")
	}
	return s.act(func() error { return s.daemon.FocusWindow(args.Window) })
}

func (s *Server) handleApplyLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyLayoutInput) (*mcpsdk.CallToolResult, ipc.PlacementsData, error) {
	data, err := s.daemon.ApplyLayout(args.Screen)
	if err != nil {
		return nil, ipc.PlacementsData{}, err
	}
	return nil, *data, nil
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Layout == "" {
		return nil, ActionOutput{}, fmt.Errorf("layout is required")
	}
	return s.act(func() error { return s.daemon.SetLayout(args.Workspace, args.Layout) })
}

// act runs a state-changing call and reports the status that follows it.
func (s *Server) act(fn func() error) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if err := fn(); err != nil {
		return nil, ActionOutput{}, err
	}
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Status: *status}, nil
}
