package parser

import (
	"os"
	"strconv"
	"strings"

	"github.com/onion-http/onion/block"
	"github.com/onion-http/onion/request"
)

// stepBodyDecide implements the branch the original parser's
// FUNC_PARSE_HEADERS tail performs: pick a body-reading state from
// the method and the headers just finished, or declare the request
// ready with no body at all.
func (p *Parser) stepBodyDecide(req *request.Request, sc *scratch) Result {
	flushPendingHeader(req, sc)

	ct, _ := req.Headers.Get("Content-Type")
	clStr, _ := req.Headers.Get("Content-Length")
	cl, _ := strconv.ParseInt(strings.TrimSpace(clStr), 10, 64)

	switch {
	case req.Method() == request.POST && strings.Contains(ct, "application/x-www-form-urlencoded"):
		if cl > p.cfg.MaxPostSize {
			return InternalError
		}
		sc.contentLength = cl
		sc.remaining = cl
		sc.bodyBlock = block.New()
		sc.state = statePostURLEncoded
		return resultContinue

	case req.Method() == request.POST && strings.Contains(ct, "boundary="):
		idx := strings.Index(ct, "boundary=")
		tok := strings.Trim(ct[idx+len("boundary="):], `"`)
		if i := strings.IndexByte(tok, ';'); i >= 0 {
			tok = tok[:i]
		}
		if tok == "" {
			return InternalError
		}
		sc.boundary = []byte("--" + strings.TrimSpace(tok))
		sc.state = stateMultipartStart
		return resultContinue

	case req.Method() == request.PUT:
		f, path, err := createTempFile(p.cfg.TempDir)
		if err != nil {
			return InternalError
		}
		sc.tempFile = f
		sc.tempFilePath = path
		sc.remaining = cl
		sc.contentLength = cl
		sc.state = statePut
		if cl <= 0 {
			return p.finishPut(req, sc)
		}
		return resultContinue

	case cl > 0:
		if cl > p.cfg.MaxPostSize {
			return InternalError
		}
		sc.contentLength = cl
		sc.remaining = cl
		sc.bodyBlock = block.New()
		sc.state = stateContentLength
		return resultContinue

	default:
		sc.state = stateDone
		return RequestReady
	}
}

func (p *Parser) stepPostURLEncoded(req *request.Request, sc *scratch) Result {
	n := int64(len(sc.buf))
	if n > sc.remaining {
		n = sc.remaining
	}
	sc.bodyBlock.Append(sc.buf[:n])
	sc.buf = sc.buf[n:]
	sc.remaining -= n
	if sc.remaining > 0 {
		return NeedMoreData
	}
	parseQueryInto(req.POST, string(sc.bodyBlock.Bytes()))
	req.Data = sc.bodyBlock
	sc.state = stateDone
	return RequestReady
}

func (p *Parser) stepContentLength(req *request.Request, sc *scratch) Result {
	n := int64(len(sc.buf))
	if n > sc.remaining {
		n = sc.remaining
	}
	sc.bodyBlock.Append(sc.buf[:n])
	sc.buf = sc.buf[n:]
	sc.remaining -= n
	if sc.remaining > 0 {
		return NeedMoreData
	}
	req.Data = sc.bodyBlock
	sc.state = stateDone
	return RequestReady
}

func (p *Parser) stepPut(req *request.Request, sc *scratch) Result {
	n := int64(len(sc.buf))
	if n > sc.remaining {
		n = sc.remaining
	}
	if n > 0 {
		if _, err := sc.tempFile.Write(sc.buf[:n]); err != nil {
			sc.tempFile.Close()
			os.Remove(sc.tempFilePath)
			return InternalError
		}
		sc.buf = sc.buf[n:]
		sc.remaining -= n
	}
	if sc.remaining > 0 {
		return NeedMoreData
	}
	return p.finishPut(req, sc)
}

func (p *Parser) finishPut(req *request.Request, sc *scratch) Result {
	if err := sc.tempFile.Close(); err != nil {
		os.Remove(sc.tempFilePath)
		return InternalError
	}
	path := sc.tempFilePath
	req.Files.AddString("body", path)
	req.FreeList.Add(func() { os.Remove(path) })
	sc.state = stateDone
	return RequestReady
}

func createTempFile(dir string) (*os.File, string, error) {
	f, err := os.CreateTemp(dir, "onion-body-*")
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}
