package gateway

import "github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"

// toRPCError is the sole place a mcperror.Kind becomes a JSON-RPC code —
// every other package returns a *mcperror.Error and never constructs an
// RPCError directly.
func toRPCError(err error) *RPCError {
	me, ok := mcperror.As(err)
	if !ok {
		return &RPCError{Code: CodeInternalError, Message: "internal error"}
	}

	code := CodeInternalError
	switch me.Kind {
	case mcperror.KindValidation:
		code = CodeInvalidParams
	case mcperror.KindNotInitialized:
		code = CodeNotInitialized
	case mcperror.KindNotFound:
		code = CodeNotFound
	case mcperror.KindUpstream, mcperror.KindRateLimited:
		code = CodeUpstreamError
	case mcperror.KindConfig, mcperror.KindInternal:
		code = CodeInternalError
	case mcperror.KindParse:
		code = CodeParseError
	case mcperror.KindMethodNotFound:
		code = CodeMethodNotFound
	}

	return &RPCError{Code: code, Message: me.Message, Data: me.Data}
}
