package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arrgate/arrgate/internal/logging"
)

// ToolHandler is the dispatch surface the server drives. Call must never
// panic or return a transport-level error for a tool-level failure; every
// invocation settles into a ToolResult.
type ToolHandler interface {
	Tools() []Tool
	Call(ctx context.Context, name string, args map[string]any) ToolResult
}

// Server reads newline-delimited JSON-RPC requests from stdin and writes
// responses to stdout.
type Server struct {
	name    string
	version string
	handler ToolHandler
	in      io.Reader
	out     io.Writer
	enc     *json.Encoder
	log     *logging.Logger
}

// NewServer creates a stdio server. in/out default to stdin/stdout when nil.
func NewServer(name, version string, handler ToolHandler, in io.Reader, out io.Writer, log *logging.Logger) *Server {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Server{
		name:    name,
		version: version,
		handler: handler,
		in:      in,
		out:     out,
		enc:     json.NewEncoder(out),
		log:     log.Sub("mcp"),
	}
}

// Run serves requests until stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	s.log.Info().Str("server", s.name).Msg("listening for requests on stdin")

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		s.handleLine(ctx, line)
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return fmt.Errorf("read stdin: %w", err)
	}
	s.log.Info().Msg("stdin closed, shutting down")
	return nil
}

func (s *Server) handleLine(ctx context.Context, line string) {
	var req JSONRPCRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.log.Warn().Err(err).Msg("request parse error")
		s.sendError(nil, CodeParseError, "Parse error", err.Error())
		return
	}

	s.log.Debug().Str("method", req.Method).Msg("handling request")

	switch req.Method {
	case "initialize":
		s.sendResult(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    Capabilities{Tools: map[string]any{}},
			ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
		})
	case "notifications/initialized":
		// notification, no response
	case "ping":
		s.sendResult(req.ID, map[string]any{})
	case "tools/list":
		s.sendResult(req.ID, ListToolsResult{Tools: s.handler.Tools()})
	case "tools/call":
		s.handleCall(ctx, req)
	default:
		s.sendError(req.ID, CodeMethodNotFound, "Method not found", req.Method)
	}
}

func (s *Server) handleCall(ctx context.Context, req JSONRPCRequest) {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, CodeInvalidParams, "Invalid params", err.Error())
		return
	}
	result := s.handler.Call(ctx, params.Name, params.Arguments)
	s.sendResult(req.ID, result)
}

func (s *Server) sendResult(id any, result any) {
	s.send(JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id any, code int, msg string, data any) {
	s.send(JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg, Data: data}})
}

func (s *Server) send(resp JSONRPCResponse) {
	if err := s.enc.Encode(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}
