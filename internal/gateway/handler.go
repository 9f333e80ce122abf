package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/registry"
	"github.com/nicholaswilde/rescue-groups-mcp/internal/rescuegroups"
)

// handler implements C8: one JSON-RPC request in, one Response out (or no
// Response, for a notification). It owns no transport concerns — server.go
// and http.go adapt it to stdio and HTTP+SSE respectively.
type handler struct {
	client   *rescuegroups.Client
	registry *registry.Registry
	lazy     bool
}

func newHandler(client *rescuegroups.Client, reg *registry.Registry, lazy bool) *handler {
	return &handler{client: client, registry: reg, lazy: lazy}
}

// dispatch routes one request to its method handler. An absent id denotes
// a notification: dispatch still runs the corresponding side effect (if
// any) but always returns a nil Response in that case.
func (h *handler) dispatch(ctx context.Context, sess *session, req *Request) *Response {
	isNotification := len(req.ID) == 0

	var result any
	var err error

	switch req.Method {
	case "initialize":
		result, err = h.handleInitialize(sess, req.Params)
	case "notifications/initialized":
		h.handleInitializedNotification()
		return nil
	case "ping":
		result = map[string]any{}
	case "tools/list":
		result, err = h.handleToolsList(sess)
	case "tools/call":
		result, err = h.handleToolsCall(ctx, sess, req.Params)
	default:
		err = mcperror.MethodNotFound(req.Method)
	}

	if isNotification {
		return nil
	}
	return h.buildResponse(req.ID, result, err)
}

func (h *handler) buildResponse(id json.RawMessage, result any, err error) *Response {
	resp := &Response{JSONRPC: "2.0", ID: id}
	if err != nil {
		resp.Error = toRPCError(err)
		return resp
	}
	raw, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		resp.Error = toRPCError(mcperror.Wrap(mcperror.KindInternal, marshalErr, "encode result"))
		return resp
	}
	resp.Result = raw
	return resp
}

func (h *handler) handleInitialize(sess *session, params json.RawMessage) (*InitializeResult, error) {
	var p InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, mcperror.Wrap(mcperror.KindParse, err, "malformed initialize params")
		}
	}
	sess.markInitialized()
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    ServerCapability{Tools: &ToolCapability{ListChanged: false}},
		ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
	}, nil
}

func (h *handler) handleInitializedNotification() {
	slog.Debug("session initialized")
}

func (h *handler) handleToolsList(sess *session) (*ToolsListResult, error) {
	if !sess.isInitialized() {
		return nil, mcperror.NotInitialized()
	}
	descriptors := h.registry.Visible(h.lazy)
	tools := make([]Tool, len(descriptors))
	for i, d := range descriptors {
		tools[i] = Tool{Name: d.Name, Description: d.Description, InputSchema: d.Schema}
	}
	return &ToolsListResult{Tools: tools}, nil
}

func (h *handler) handleToolsCall(ctx context.Context, sess *session, params json.RawMessage) (*CallToolResult, error) {
	if !sess.isInitialized() {
		return nil, mcperror.NotInitialized()
	}

	var p CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, mcperror.Wrap(mcperror.KindParse, err, "malformed tools/call params")
	}

	d, ok := h.registry.Lookup(p.Name)
	if !ok {
		return nil, mcperror.Validation("unknown tool %q", p.Name).WithField("name")
	}

	text, err := d.Handler(ctx, h.client, p.Arguments)
	if err != nil {
		return nil, err
	}
	return &CallToolResult{Content: []ToolContent{{Type: "text", Text: text}}}, nil
}
