package server

import (
	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/parser"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
	"github.com/onion-http/onion/websocket"
)

// readBufferSize is the per-read chunk size handed to the parser,
// matching the original listen point's per-connection read buffer.
const readBufferSize = 8192

// connResult tells a caller (the blocking per-connection loop, or a
// poller OnReady callback) what to do next.
type connResult int

const (
	// connContinue means the connection is still open and waiting for
	// more readable bytes.
	connContinue connResult = iota
	// connDone means the connection should be torn down; the caller
	// closes the transport and removes any poller registration.
	connDone
)

// serveStep reads one chunk from req's connection and drives it as
// far through the parser and handler chain as the data allows,
// including re-parsing any pipelined bytes left over from a completed
// request without waiting for another readiness notification.
func (s *Server) serveStep(req *request.Request) connResult {
	buf := make([]byte, readBufferSize)
	n, err := req.Connection.Read(buf)
	if err != nil {
		return connDone
	}
	if n == 0 {
		return connContinue
	}

	data := buf[:n]
	for {
		result, leftover := s.parser.Feed(req, data)
		switch result {
		case parser.NeedMoreData:
			return connContinue

		case parser.RequestReady:
			if s.monitor != nil {
				s.monitor.RequestsTotal.Inc()
			}
			res := response.New(req)
			st := s.chain.Handle(req, res)

			switch st {
			case handler.WebSocket:
				if s.monitor != nil {
					s.monitor.WebSocketUpgrades.Inc()
				}
				s.serveWebSocket(req)
				return connDone
			case handler.KeepAlive:
				req.Reset()
				if len(leftover) == 0 {
					return connContinue
				}
				data = leftover
				continue
			default:
				return connDone
			}

		case parser.NotImplemented:
			s.rejectAndClose(req, 501, "Not Implemented")
			return connDone

		default: // parser.InternalError
			if s.monitor != nil {
				s.monitor.ParserErrors.Inc()
			}
			s.rejectAndClose(req, 400, "Bad Request")
			return connDone
		}
	}
}

// rejectAndClose writes a minimal error response for a request the
// parser itself could not complete, before the handler chain ever
// sees it.
func (s *Server) rejectAndClose(req *request.Request, code int, reason string) {
	res := response.New(req)
	res.SetCode(code)
	res.SetHeader("Connection", "close")
	_, _ = res.Printf("<html><body><h1>%d - %s</h1></body></html>", code, reason)
	_ = res.Close()
}

// serveWebSocket drives the frame loop installed by the handler
// chain's Upgrade call until the peer or a callback closes it.
func (s *Server) serveWebSocket(req *request.Request) {
	ws, ok := req.WebSocket.(*websocket.WebSocket)
	if !ok {
		return
	}
	for {
		if st := ws.Serve(); st == handler.CloseConnection {
			return
		}
	}
}
