package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/registry"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

const maxLineSize = 1 << 20 // 1 MiB

// Server runs the MCP protocol core for one transport. cmdServer and cmdHTTP
// each build a single Server for the process lifetime; per-exchange state
// lives in a session instead: one for the whole stdio stream, one per
// HTTP POST /, and one per SSE connection.
type Server struct {
	handler *handler
	mu      sync.Mutex
}

// NewServer builds a Server. lazy controls whether tools/list is
// restricted to the core tool set.
func NewServer(client *rescuegroups.Client, reg *registry.Registry, lazy bool) *Server {
	return &Server{handler: newHandler(client, reg, lazy)}
}

// RunStdio reads newline-delimited JSON-RPC requests from r and writes
// newline-delimited responses to w until r reaches EOF or ctx is
// canceled. Every log line goes to stderr via slog — stdout carries only
// protocol traffic.
func (s *Server) RunStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	sess := newSession()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(ctx, sess, line)
		if resp == nil {
			continue
		}
		if err := s.writeResponse(w, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handleLine(ctx context.Context, sess *session, line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		slog.Error("malformed JSON-RPC request", "error", err)
		return &Response{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: toRPCError(
			mcperror.Wrap(mcperror.KindParse, err, "malformed JSON-RPC request"))}
	}
	return s.handler.dispatch(ctx, sess, &req)
}

func (s *Server) writeResponse(w io.Writer, resp *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
