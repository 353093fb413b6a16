package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/icon-mosaic/internal/imaging"
	"github.com/ironsheep/icon-mosaic/internal/mosaic"
)

// errRequestCancelled is the cancellation cause of a tools/call the client
// withdrew with notifications/cancelled.
var errRequestCancelled = errors.New("request cancelled by client")

// Server handles MCP protocol communication
type Server struct {
	version string
	cache   *imaging.ImageCache

	libMu  sync.RWMutex
	engine *mosaic.Engine
	libDir string

	outMu sync.Mutex
	enc   *json.Encoder

	callsMu sync.Mutex
	calls   map[string]context.CancelCauseFunc
	wg      sync.WaitGroup
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a new MCP server instance with an empty asset library.
func New(version string) *Server {
	return &Server{
		version: version,
		cache:   imaging.NewImageCache(),
		engine:  mosaic.NewEngine(nil),
		calls:   make(map[string]context.CancelCauseFunc),
	}
}

// LoadLibrary replaces the asset library with the images in dir.
func (s *Server) LoadLibrary(ctx context.Context, dir string) (*mosaic.Library, error) {
	lib, err := mosaic.LoadLibraryDir(ctx, s.cache, dir)
	if err != nil {
		return nil, err
	}

	s.libMu.Lock()
	s.engine = mosaic.NewEngine(lib)
	s.libDir = dir
	s.libMu.Unlock()
	return lib, nil
}

func (s *Server) currentEngine() (*mosaic.Engine, string) {
	s.libMu.RLock()
	defer s.libMu.RUnlock()
	return s.engine, s.libDir
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC message per line from r and writes responses and
// notifications to w. tools/call requests run concurrently so that a
// notifications/cancelled can reach them; every other method is answered in
// order. Serve returns once r is exhausted and in-flight calls are done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.outMu.Lock()
	s.enc = json.NewEncoder(w)
	s.outMu.Unlock()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.WithError(err).Warn("Failed to parse request")
			continue
		}

		if req.Method == "tools/call" {
			s.dispatchCall(ctx, req)
			continue
		}
		if resp := s.handleRequest(ctx, &req); resp != nil {
			s.send(resp)
		}
	}

	s.wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

func (s *Server) dispatchCall(ctx context.Context, req MCPRequest) {
	callCtx, cancel := context.WithCancelCause(ctx)
	key := requestKey(req.ID)

	s.callsMu.Lock()
	_, busy := s.calls[key]
	if !busy {
		s.calls[key] = cancel
	}
	s.callsMu.Unlock()
	if busy {
		cancel(nil)
		s.send(s.errorResponse(req.ID, -32600, "Invalid Request", "request id is already in use"))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.callsMu.Lock()
			delete(s.calls, key)
			s.callsMu.Unlock()
			cancel(nil)
		}()

		resp := s.handleToolsCall(callCtx, &req)
		if errors.Is(context.Cause(callCtx), errRequestCancelled) {
			log.WithField("id", key).Info("Dropping response of cancelled request")
			return
		}
		s.send(resp)
	}()
}

// cancelCall cancels the in-flight tools/call with the given request id.
func (s *Server) cancelCall(id interface{}) bool {
	s.callsMu.Lock()
	cancel, ok := s.calls[requestKey(id)]
	s.callsMu.Unlock()
	if ok {
		cancel(errRequestCancelled)
	}
	return ok
}

// requestKey keeps the JSON type of an id, so "1" and 1 are different
// requests.
func requestKey(id interface{}) string {
	return fmt.Sprintf("%T:%v", id, id)
}

// send writes one message. Messages from concurrent calls never interleave.
func (s *Server) send(v interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.enc == nil {
		return
	}
	if err := s.enc.Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode message")
	}
}

func (s *Server) notify(method string, params interface{}) {
	s.send(&MCPNotification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "notifications/cancelled":
		s.handleCancelled(req)
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

type cancelledParams struct {
	RequestID interface{} `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}

func (s *Server) handleCancelled(req *MCPRequest) {
	var p cancelledParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		log.WithError(err).Warn("Invalid cancellation notification")
		return
	}
	if !s.cancelCall(p.RequestID) {
		log.WithField("id", p.RequestID).Debug("Cancellation for unknown or finished request")
		return
	}
	log.WithFields(log.Fields{
		"id":     p.RequestID,
		"reason": p.Reason,
	}).Info("Request cancelled")
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "icon-mosaic",
				"version": s.version,
			},
		},
	}
}
