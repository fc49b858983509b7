package parser

import (
	"github.com/onion-http/onion/request"
)

func (p *Parser) stepMethod(req *request.Request, sc *scratch) Result {
	tok, consumed, _, ok := findDelim(sc.buf, " \r\n")
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			p.log.Warn("method token exceeds size cap")
			return InternalError
		}
		return NeedMoreData
	}
	sc.buf = sc.buf[consumed:]
	if len(tok) > maxTokenBytes {
		return InternalError
	}
	m, ok := request.LookupMethod(string(tok))
	if !ok {
		return NotImplemented
	}
	req.SetMethod(m)
	sc.state = stateURL
	return resultContinue
}

func (p *Parser) stepURL(req *request.Request, sc *scratch) Result {
	tok, consumed, delim, ok := findDelim(sc.buf, " \r\n")
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}
	sc.buf = sc.buf[consumed:]
	if len(tok) > maxTokenBytes {
		return InternalError
	}
	if len(tok) == 0 {
		return InternalError
	}

	path, query := splitRequestTarget(string(tok))
	req.SetFullPath(path)
	if query != "" {
		parseQueryInto(req.GETArgs, query)
	}

	if delim == ' ' {
		sc.state = stateVersion
	} else {
		// No version token present on the request line; treat as a
		// bare HTTP/0.9-style request and go straight to headers
		// (there won't be any, but the state machine still has to
		// see the end-of-headers blank line to move on — callers of
		// such ancient clients are expected to close the connection
		// themselves).
		sc.state = stateHeaderKey
	}
	return resultContinue
}

func (p *Parser) stepVersion(req *request.Request, sc *scratch) Result {
	line, consumed, ok := findLine(sc.buf)
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}
	sc.buf = sc.buf[consumed:]
	if len(line) > maxTokenBytes {
		return InternalError
	}
	if string(line) == "HTTP/1.1" {
		req.SetFlag(request.FlagHTTP11)
	}
	sc.state = stateHeaderKey
	return resultContinue
}
