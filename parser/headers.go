package parser

import (
	"strings"

	"github.com/onion-http/onion/request"
)

func flushPendingHeader(req *request.Request, sc *scratch) {
	if sc.pendingKey == "" {
		return
	}
	req.Headers.AddString(sc.pendingKey, sc.pendingValue)
	sc.pendingKey = ""
	sc.pendingValue = ""
	sc.haveFold = false
}

// stepHeaderKey reads either a new "Key:" line or, when a pending
// header is waiting to be flushed, decides whether the next line
// folds onto it (starts with space/tab) before doing anything else.
// This is the one place a byte of lookahead genuinely matters: if
// sc.buf is empty we cannot yet tell whether the previous value
// continues, so we must wait rather than flush early.
func (p *Parser) stepHeaderKey(req *request.Request, sc *scratch) Result {
	if sc.pendingKey != "" {
		if len(sc.buf) == 0 {
			return NeedMoreData
		}
		if sc.buf[0] == ' ' || sc.buf[0] == '\t' {
			sc.buf = sc.buf[1:]
			sc.haveFold = true
			sc.state = stateHeaderValue
			return resultContinue
		}
		flushPendingHeader(req, sc)
	}

	tok, consumed, delim, ok := findDelim(sc.buf, ":\n")
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}

	sc.headerBytes += consumed
	if sc.headerBytes > maxHeaderSection {
		return InternalError
	}

	key := strings.TrimSpace(string(tok))
	sc.buf = sc.buf[consumed:]

	if delim == '\n' {
		if key != "" {
			// Header line with no colon: lenient skip.
			return resultContinue
		}
		// Blank line: end of headers.
		sc.state = stateBodyDecide
		return resultContinue
	}

	if len(tok) > maxTokenBytes {
		return InternalError
	}
	sc.pendingKey = key
	sc.pendingValue = ""
	sc.state = stateHeaderValue
	return resultContinue
}

func (p *Parser) stepHeaderValue(req *request.Request, sc *scratch) Result {
	line, consumed, ok := findLine(sc.buf)
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}

	sc.headerBytes += consumed
	if sc.headerBytes > maxHeaderSection {
		return InternalError
	}
	if len(line) > maxTokenBytes {
		return InternalError
	}
	sc.buf = sc.buf[consumed:]

	v := strings.TrimSpace(string(line))
	if sc.haveFold {
		sc.pendingValue = sc.pendingValue + " " + v
	} else {
		sc.pendingValue = v
	}
	sc.state = stateHeaderKey
	return resultContinue
}
