package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
)

// Controller is the daemon state the server dispatches commands to. All
// methods must be safe for concurrent use.
type Controller interface {
	Status() StatusData
	Workspaces() []WorkspaceInfo
	Layouts() LayoutsData
	Focus(target Target) error
	Swap(target Target) error
	SendMessage(tag string, msg layout.Message) error
	SwitchWorkspace(screen *int, tag string) error
	MoveWindow(w stack.Window, tag string) error
	FocusWindow(w stack.Window) error
	ApplyLayout(screen *int) (PlacementsData, error)
	SetLayout(tag, name string) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server that will listen on socketPath.
func NewServer(socketPath string, ctrl Controller) *Server {
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.shutdownMu.Lock()
	s.listener = listener
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop(listener)
	return nil
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

func (s *Server) String() string { return "ipc-server" }

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.Dispatch(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// Dispatch processes a command and returns its response.
func (s *Server) Dispatch(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return ok(s.ctrl.Status())
	case CommandListWorkspaces:
		return ok(WorkspacesData{Workspaces: s.ctrl.Workspaces()})
	case CommandListLayouts:
		return ok(s.ctrl.Layouts())
	case CommandFocus:
		return s.handleTarget(req.Payload, s.ctrl.Focus)
	case CommandSwap:
		return s.handleTarget(req.Payload, s.ctrl.Swap)
	case CommandSendMessage:
		return s.handleSendMessage(req.Payload)
	case CommandSwitchWorkspace:
		return s.handleSwitchWorkspace(req.Payload)
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandFocusWindow:
		return s.handleFocusWindow(req.Payload)
	case CommandApplyLayout:
		return s.handleApplyLayout(req.Payload)
	case CommandSetLayout:
		return s.handleSetLayout(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")
	if err := s.ctrl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	log.Println("IPC: Config reloaded successfully")
	return ok(nil)
}

func (s *Server) handleTarget(payload json.RawMessage, op func(Target) error) *Response {
	var req TargetPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	target, err := ParseTarget(string(req.Target))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := op(target); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleSendMessage(payload json.RawMessage) *Response {
	var req SendMessagePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	msg, err := layout.ParseMessage(req.Message)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.ctrl.SendMessage(req.Tag, msg); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleSwitchWorkspace(payload json.RawMessage) *Response {
	var req SwitchWorkspacePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Tag == "" {
		return NewErrorResponse("tag is required")
	}
	if err := s.ctrl.SwitchWorkspace(req.Screen, req.Tag); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var req MoveWindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Tag == "" {
		return NewErrorResponse("tag is required")
	}
	if err := s.ctrl.MoveWindow(stack.Window(req.Window), req.Tag); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleFocusWindow(payload json.RawMessage) *Response {
	var req FocusWindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Window == 0 {
		return NewErrorResponse("window is required")
	}
	if err := s.ctrl.FocusWindow(stack.Window(req.Window)); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleApplyLayout(payload json.RawMessage) *Response {
	var req ApplyLayoutPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	data, err := s.ctrl.ApplyLayout(req.Screen)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(data)
}

func (s *Server) handleSetLayout(payload json.RawMessage) *Response {
	var req SetLayoutPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.LayoutName == "" {
		return NewErrorResponse("layout_name is required")
	}
	if err := s.ctrl.SetLayout(req.Tag, req.LayoutName); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

// decodePayload accepts an empty payload as the zero value.
func decodePayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	listener := s.listener
	s.listener = nil
	s.shutdownMu.Unlock()

	if listener != nil {
		listener.Close()
	}
	os.Remove(s.socketPath)
}
