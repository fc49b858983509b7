package parser

import (
	"os"
	"strings"

	"github.com/onion-http/onion/block"
	"github.com/onion-http/onion/request"
)

// stepMultipartStart consumes the opening "--boundary" line. A well
// formed body always has one; an immediate "--boundary--" means a
// part-less body, which is unusual but not invalid.
func (p *Parser) stepMultipartStart(req *request.Request, sc *scratch) Result {
	line, consumed, ok := findLine(sc.buf)
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}
	sc.buf = sc.buf[consumed:]

	open := string(sc.boundary)
	switch string(line) {
	case open:
		sc.state = stateMultipartHeaderKey
		return resultContinue
	case open + "--":
		sc.state = stateDone
		return RequestReady
	default:
		return InternalError
	}
}

func (p *Parser) stepMultipartHeaderKey(req *request.Request, sc *scratch) Result {
	tok, consumed, delim, ok := findDelim(sc.buf, ":\n")
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}
	if len(tok) > maxTokenBytes {
		return InternalError
	}
	sc.buf = sc.buf[consumed:]

	if delim == '\n' {
		if len(tok) != 0 {
			return resultContinue
		}
		return p.startMultipartBody(req, sc)
	}

	sc.pendingKey = strings.TrimSpace(string(tok))
	sc.state = stateMultipartHeaderValue
	return resultContinue
}

func (p *Parser) stepMultipartHeaderValue(req *request.Request, sc *scratch) Result {
	line, consumed, ok := findLine(sc.buf)
	if !ok {
		if len(sc.buf) > maxTokenBytes {
			return InternalError
		}
		return NeedMoreData
	}
	if len(line) > maxTokenBytes {
		return InternalError
	}
	sc.buf = sc.buf[consumed:]
	v := strings.TrimSpace(string(line))

	if strings.EqualFold(sc.pendingKey, "Content-Disposition") {
		sc.fieldName = paramValue(v, "name")
		if fn, ok := paramValueOK(v, "filename"); ok {
			sc.fileName = fn
			sc.isFile = true
		}
	}

	sc.pendingKey = ""
	sc.state = stateMultipartHeaderKey
	return resultContinue
}

func (p *Parser) startMultipartBody(req *request.Request, sc *scratch) Result {
	sc.scanner = newBoundaryScanner(append([]byte("\r\n"), sc.boundary...))
	if sc.isFile {
		f, path, err := createTempFile(p.cfg.TempDir)
		if err != nil {
			return InternalError
		}
		sc.tempFile = f
		sc.tempFilePath = path
		sc.remaining = p.cfg.MaxFileSize
	} else {
		sc.bodyBlock = block.New()
		sc.remaining = p.cfg.MaxPostSize
	}
	sc.state = stateMultipartBody
	return resultContinue
}

func (p *Parser) stepMultipartBody(req *request.Request, sc *scratch) Result {
	emit, rest, found := sc.scanner.feed(sc.buf)
	sc.buf = nil

	if int64(len(emit)) > sc.remaining {
		if sc.tempFile != nil {
			sc.tempFile.Close()
			os.Remove(sc.tempFilePath)
		}
		return InternalError
	}
	sc.remaining -= int64(len(emit))

	if len(emit) > 0 {
		if sc.isFile {
			if _, err := sc.tempFile.Write(emit); err != nil {
				sc.tempFile.Close()
				os.Remove(sc.tempFilePath)
				return InternalError
			}
		} else {
			sc.bodyBlock.Append(emit)
		}
	}

	if !found {
		return NeedMoreData
	}

	if err := p.finishMultipartPart(req, sc); err != nil {
		return InternalError
	}

	// rest begins right after the boundary token: either "--" (end of
	// body) or the CRLF leading into the next part's headers.
	sc.buf = rest
	if len(rest) >= 2 && string(rest[:2]) == "--" {
		sc.buf = rest[2:]
		sc.state = stateDone
		return RequestReady
	}
	if len(rest) >= 2 && rest[0] == '\r' && rest[1] == '\n' {
		sc.buf = rest[2:]
	}
	sc.fieldName = ""
	sc.fileName = ""
	sc.isFile = false
	sc.state = stateMultipartHeaderKey
	return resultContinue
}

func (p *Parser) finishMultipartPart(req *request.Request, sc *scratch) error {
	name := sc.fieldName
	if name == "" {
		name = sc.fileName
	}
	if sc.isFile {
		if err := sc.tempFile.Close(); err != nil {
			os.Remove(sc.tempFilePath)
			return err
		}
		path := sc.tempFilePath
		req.Files.AddString(name, path)
		req.FreeList.Add(func() { os.Remove(path) })
	} else {
		req.POST.AddString(name, sc.bodyBlock.String())
	}
	sc.tempFile = nil
	sc.tempFilePath = ""
	sc.bodyBlock = nil
	sc.scanner = nil
	return nil
}

// paramValue extracts a `key="value"` parameter from a header value
// like `form-data; name="foo"; filename="bar.txt"`.
func paramValue(header, key string) string {
	v, _ := paramValueOK(header, key)
	return v
}

func paramValueOK(header, key string) (string, bool) {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(strings.ToLower(part), strings.ToLower(key)+"=") {
			continue
		}
		v := strings.TrimSpace(part[len(key)+1:])
		v = strings.Trim(v, `"`)
		return v, true
	}
	return "", false
}
