package handler

import (
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

// Handler is a single node in the request-handling chain.
type Handler interface {
	Handle(req *request.Request, res *response.Response) Status
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(req *request.Request, res *response.Response) Status

// Handle calls f.
func (f HandlerFunc) Handle(req *request.Request, res *response.Response) Status {
	return f(req, res)
}
