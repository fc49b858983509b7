package router

import (
	"regexp"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

type nodeKind int

const (
	kindLiteral nodeKind = iota
	kindRegex
)

type node struct {
	kind    nodeKind
	literal string
	re      *regexp.Regexp
	inner   handler.Handler
}

// Router dispatches on the request path to a list of inner handlers,
// tried in registration order. It implements handler.Handler, so
// routers nest via AddURL exactly like any other handler.
type Router struct {
	nodes []node
}

// New returns an empty Router.
func New() *Router {
	return &Router{}
}

// Add registers h under pattern. A pattern beginning with '^' is
// compiled as a regular expression (REG_EXTENDED in the original C
// library, RE2 here) and matched against the start of the current
// path; any other pattern must equal the current path exactly. Add
// panics on an invalid regular expression, mirroring the registration
// errors the original library reports at setup time rather than at
// request time.
func (rt *Router) Add(pattern string, h handler.Handler) *Router {
	if len(pattern) > 0 && pattern[0] == '^' {
		re, err := regexp.Compile(pattern)
		if err != nil {
			panic(errs.New(ErrorBadPattern, "compiling router pattern", err))
		}
		rt.nodes = append(rt.nodes, node{kind: kindRegex, re: re, inner: h})
		return rt
	}
	rt.nodes = append(rt.nodes, node{kind: kindLiteral, literal: pattern, inner: h})
	return rt
}

// AddFunc is a convenience wrapper around Add for plain functions.
func (rt *Router) AddFunc(pattern string, f handler.HandlerFunc) *Router {
	return rt.Add(pattern, f)
}

// AddURL attaches a nested Router (or any handler.Handler) under
// pattern, letting it dispatch on whatever path remains after the
// match. Regex patterns intended for this use should not match to the
// end of the path (e.g. "^static/" rather than "^static/$") or the
// nested router will never see any path to work with.
func (rt *Router) AddURL(pattern string, sub handler.Handler) *Router {
	return rt.Add(pattern, sub)
}

// AddStatic registers a leaf handler that always writes text verbatim
// with the given status code, ignoring the request body.
func (rt *Router) AddStatic(pattern, text string, code int) *Router {
	return rt.Add(pattern, handler.HandlerFunc(func(req *request.Request, res *response.Response) handler.Status {
		res.SetCode(code)
		res.SetLength(int64(len(text)))
		res.WriteString(text)
		return handler.Processed
	}))
}

// Handle walks the node list in order. The first node whose pattern
// matches the current path wins: the path is advanced past the match
// and the inner handler is invoked. Nodes whose pattern does not
// match are skipped; a node whose pattern matches but whose inner
// handler declines (NotProcessed) is NOT retried against later
// nodes, matching the original library's single-pass dispatch.
func (rt *Router) Handle(req *request.Request, res *response.Response) handler.Status {
	path := req.Path()
	for _, n := range rt.nodes {
		switch n.kind {
		case kindLiteral:
			if path != n.literal {
				continue
			}
			req.Advance(len(n.literal))
			return n.inner.Handle(req, res)

		case kindRegex:
			m := n.re.FindStringSubmatchIndex(path)
			if m == nil {
				continue
			}
			for i := 1; i*2 < len(m); i++ {
				if m[i*2] == -1 {
					break
				}
				req.GETArgs.Set(groupKey(i), path[m[i*2]:m[i*2+1]])
			}
			req.Advance(m[1])
			return n.inner.Handle(req, res)
		}
	}
	return handler.NotProcessed
}

func groupKey(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return digits[i : i+1]
	}
	// capture groups beyond 9 are rare; fall back to a short decimal
	// encode rather than limiting to 16 groups like the original.
	buf := [4]byte{}
	n := len(buf)
	for i > 0 {
		n--
		buf[n] = digits[i%10]
		i /= 10
	}
	return string(buf[n:])
}
