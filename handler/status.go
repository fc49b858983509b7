package handler

// Status is the connection status a Handler returns, driving the
// connection loop's next action.
type Status int

const (
	// NotProcessed means the handler declines; the chain tries the
	// next node.
	NotProcessed Status = iota
	// Processed means the handler wrote a full response.
	Processed
	// NeedMoreData means the parser needs more bytes before a request
	// exists to dispatch.
	NeedMoreData
	// KeepAlive means the connection may be reused for another
	// request.
	KeepAlive
	// CloseConnection means the transport should be torn down.
	CloseConnection
	// WebSocket means the connection has been switched to frame mode;
	// the frame loop replaces read-ready from here on.
	WebSocket
	// Yield means the handler will complete asynchronously; the poller
	// slot's ownership transfers to the handler.
	Yield
	// InternalError maps to HTTP 500: an unrecoverable handler
	// failure, replaced by the fallback handler's output.
	InternalError
	// NotImplemented maps to HTTP 501: an unknown or unsupported
	// method.
	NotImplemented
	// Forbidden maps to HTTP 403: access denied by handler policy.
	Forbidden
)

func (s Status) String() string {
	switch s {
	case NotProcessed:
		return "NotProcessed"
	case Processed:
		return "Processed"
	case NeedMoreData:
		return "NeedMoreData"
	case KeepAlive:
		return "KeepAlive"
	case CloseConnection:
		return "CloseConnection"
	case WebSocket:
		return "WebSocket"
	case Yield:
		return "Yield"
	case InternalError:
		return "InternalError"
	case NotImplemented:
		return "NotImplemented"
	case Forbidden:
		return "Forbidden"
	default:
		return "Unknown"
	}
}

// IsError reports whether s is one of the statuses that routes to the
// fallback internal-error handler.
func (s Status) IsError() bool {
	return s == InternalError || s == NotImplemented || s == Forbidden
}

// HTTPCode returns the status code the fallback handler emits for an
// error status.
func (s Status) HTTPCode() int {
	switch s {
	case InternalError:
		return 500
	case NotImplemented:
		return 501
	case Forbidden:
		return 403
	default:
		return 500
	}
}
