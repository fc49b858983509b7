package handler

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

// Chain is an ordered list of handlers tried in turn; the first to
// return a status other than NotProcessed wins. Chain itself
// implements Handler, so chains nest.
type Chain struct {
	nodes []Handler
	log   *logrus.Entry
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{log: onlog.For("handler")}
}

// Add appends h to the end of the chain and returns the chain for
// fluent registration.
func (c *Chain) Add(h Handler) *Chain {
	c.nodes = append(c.nodes, h)
	return c
}

// Handle walks the chain. See package doc for the status taxonomy.
func (c *Chain) Handle(req *request.Request, res *response.Response) Status {
	for _, h := range c.nodes {
		st := h.Handle(req, res)
		switch st {
		case NotProcessed:
			continue
		case InternalError, NotImplemented, Forbidden:
			req.SetFlag(request.FlagError)
			c.writeFallback(req, res, st.HTTPCode(), fallbackMessage(st))
			return c.finish(res)
		case Processed:
			return c.finish(res)
		default:
			// NeedMoreData, KeepAlive, CloseConnection, WebSocket, Yield
			// are connection-loop signals the caller handles directly.
			return st
		}
	}

	req.SetFlag(request.FlagError)
	c.writeFallback(req, res, 404, "Not found")
	return c.finish(res)
}

func (c *Chain) finish(res *response.Response) Status {
	if err := res.Close(); err != nil {
		c.log.WithError(err).Warn("failed flushing response")
		return CloseConnection
	}
	if res.KeepAlive() {
		return KeepAlive
	}
	return CloseConnection
}

func (c *Chain) writeFallback(req *request.Request, res *response.Response, code int, message string) {
	if res.HeadersSent() {
		c.log.Warn("handler error after headers sent, cannot rewrite response")
		return
	}
	res.SetCode(code)
	res.SetHeader("Content-Type", "text/html")
	_, _ = fmt.Fprintf(res, "<html><body><h1>%d - %s</h1></body></html>", code, message)
}

func fallbackMessage(st Status) string {
	switch st {
	case InternalError:
		return "Internal server error"
	case NotImplemented:
		return "Not implemented"
	case Forbidden:
		return "Forbidden"
	default:
		return "Error"
	}
}
