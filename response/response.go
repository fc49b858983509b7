package response

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/block"
	"github.com/onion-http/onion/dict"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
)

// bufferCapacity mirrors the original onion_response's ~1500 byte
// staging buffer: small enough to infer Content-Length for typical
// responses without ever committing to chunked encoding.
const bufferCapacity = 1500

// ServerName is sent in every response's Server header.
const ServerName = "onion"

// SessionCookieName is the cookie name used to carry the session id,
// matching the name the session package looks for in incoming
// requests.
const SessionCookieName = "sessionid"

type mode int

const (
	modeUnset mode = iota
	modeLength
	modeChunked
	modeClose
)

// Response is the per-request buffered writer. It is not safe for
// concurrent use; a request is handled by exactly one goroutine at a
// time per the connection serialization invariant.
type Response struct {
	req *request.Request
	log *logrus.Entry

	Headers *dict.Dict

	code           int
	declaredLength int64

	buffer      *block.Block
	sentBytes   int64
	headersSent bool
	skipContent bool
	mode        mode
	closed      bool
}

// New allocates a Response bound to req, defaulting to 200 OK with no
// declared length.
func New(req *request.Request) *Response {
	return &Response{
		req:            req,
		log:            onlog.For("response"),
		Headers:        dict.New(dict.CaseInsensitive()),
		code:           200,
		declaredLength: -1,
		buffer:         block.New(),
		skipContent:    req.Method() == request.HEAD,
	}
}

// SetHeader replaces any existing value for k. Ineffective once
// headers have already been sent.
func (r *Response) SetHeader(k, v string) {
	if r.headersSent {
		return
	}
	r.Headers.Set(k, v)
}

// SetCode sets the status code. Ineffective once headers have already
// been sent.
func (r *Response) SetCode(c int) {
	if r.headersSent {
		return
	}
	r.code = c
}

// Code returns the currently set status code.
func (r *Response) Code() int { return r.code }

// SetLength declares the total body length up front, committing the
// response to non-chunked, Content-Length-bearing framing. Ineffective
// once headers have already been sent.
func (r *Response) SetLength(n int64) {
	if r.headersSent {
		return
	}
	r.declaredLength = n
}

// HeadersSent reports whether the status line and headers have
// already been written to the transport.
func (r *Response) HeadersSent() bool { return r.headersSent }

func (r *Response) keepAliveRequested() bool {
	if r.req.HasFlag(request.FlagNoKeepAlive) {
		return false
	}
	conn, _ := r.req.Headers.Get("Connection")
	conn = strings.ToLower(strings.TrimSpace(conn))
	if r.req.IsHTTP11() {
		return conn != "close"
	}
	return conn == "keep-alive"
}

func (r *Response) chooseStreamingMode() mode {
	if r.req.IsHTTP11() && r.keepAliveRequested() {
		return modeChunked
	}
	return modeClose
}

// commitHeaders finalizes the mode (inferring Content-Length from the
// buffer when nothing has forced streaming yet) and writes the status
// line plus headers to the transport. Called at most once.
func (r *Response) commitHeaders(forceStreaming bool) error {
	if r.headersSent {
		return nil
	}

	switch {
	case r.declaredLength >= 0:
		r.mode = modeLength
	case forceStreaming:
		r.mode = r.chooseStreamingMode()
	default:
		r.mode = modeLength
		r.declaredLength = int64(r.buffer.Len())
	}

	r.Headers.Set("Date", currentDateHeader())
	r.Headers.Set("Server", ServerName)
	if _, ok := r.Headers.Get("Content-Type"); !ok {
		r.Headers.Set("Content-Type", "text/html")
	}
	if r.req.SessionID != "" {
		if sess := r.req.Session(); sess != nil && sess.Count() > 0 {
			_ = r.AddCookie(SessionCookieName, r.req.SessionID, CookieOptions{Path: "/", HttpOnly: true})
		}
	}

	switch r.mode {
	case modeLength:
		r.Headers.Set("Content-Length", strconv.FormatInt(r.declaredLength, 10))
		if !r.req.IsHTTP11() && r.keepAliveRequested() {
			r.Headers.Set("Connection", "Keep-Alive")
		} else if r.req.IsHTTP11() && !r.keepAliveRequested() {
			r.Headers.Set("Connection", "close")
		}
	case modeChunked:
		r.Headers.Set("Transfer-Encoding", "chunked")
	case modeClose:
		r.Headers.Set("Connection", "close")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.code, ReasonPhrase(r.code))
	if !r.req.IsHTTP11() {
		b.Reset()
		fmt.Fprintf(&b, "HTTP/1.0 %d %s\r\n", r.code, ReasonPhrase(r.code))
	}
	r.Headers.Preorder(func(k string, v dict.Value) bool {
		fmt.Fprintf(&b, "%s: %s\r\n", k, v.AsString())
		return true
	})
	b.WriteString("\r\n")

	if _, err := r.req.Connection.Write([]byte(b.String())); err != nil {
		return ErrorWrite.Error(err)
	}
	r.headersSent = true
	return nil
}

// WriteHeaders forces the status line and headers to be emitted now,
// inferring Content-Length from whatever is currently buffered. A HEAD
// request sets the skip-content flag so subsequent body writes are
// dropped.
func (r *Response) WriteHeaders() error {
	if err := r.commitHeaders(false); err != nil {
		return err
	}
	return r.flushBuffered()
}

func (r *Response) flushBuffered() error {
	if r.buffer.Len() == 0 {
		return nil
	}
	data := r.buffer.Bytes()
	if err := r.writeFramed(data); err != nil {
		return err
	}
	r.sentBytes += int64(len(data))
	r.buffer.Reset()
	return nil
}

func (r *Response) writeFramed(data []byte) error {
	if r.skipContent {
		return nil
	}
	if r.mode == modeChunked {
		if len(data) == 0 {
			return nil
		}
		chunk := block.New()
		chunk.AppendPrintf("%x\r\n", len(data))
		chunk.Append(data)
		chunk.AppendString("\r\n")
		if _, err := r.req.Connection.Write(chunk.Bytes()); err != nil {
			return ErrorWrite.Error(err)
		}
		return nil
	}
	if _, err := r.req.Connection.Write(data); err != nil {
		return ErrorWrite.Error(err)
	}
	return nil
}

// Write buffers p, flushing whenever the staging buffer fills. The
// first write that would overflow the buffer without a declared
// length commits the response to streaming mode (chunked for
// HTTP/1.1 keep-alive, otherwise Connection: close).
func (r *Response) Write(p []byte) (int, error) {
	if r.closed {
		return 0, ErrorAlreadySent.Error(nil)
	}
	total := len(p)

	if !r.headersSent && r.declaredLength >= 0 {
		if err := r.commitHeaders(false); err != nil {
			return 0, err
		}
	}

	for len(p) > 0 {
		if !r.headersSent && r.declaredLength < 0 && r.buffer.Len()+len(p) > bufferCapacity {
			if err := r.commitHeaders(true); err != nil {
				return total - len(p), err
			}
			if err := r.flushBuffered(); err != nil {
				return total - len(p), err
			}
		}

		space := bufferCapacity - r.buffer.Len()
		if r.headersSent && space <= 0 {
			if err := r.flushBuffered(); err != nil {
				return total - len(p), err
			}
			space = bufferCapacity
		}
		if space <= 0 {
			space = len(p)
		}
		take := len(p)
		if take > space {
			take = space
		}
		r.buffer.Append(p[:take])
		p = p[take:]

		if r.headersSent && r.buffer.Len() >= bufferCapacity {
			if err := r.flushBuffered(); err != nil {
				return total - len(p), err
			}
		}
	}
	return total, nil
}

// WriteString is a convenience wrapper over Write.
func (r *Response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// WriteHTMLSafe HTML-escapes s before writing it, for embedding
// untrusted strings into an HTML body.
func (r *Response) WriteHTMLSafe(s string) (int, error) {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Write([]byte(replacer.Replace(s)))
}

// Printf formats according to format and writes the result.
func (r *Response) Printf(format string, args ...interface{}) (int, error) {
	return r.Write([]byte(fmt.Sprintf(format, args...)))
}

// Flush forces any buffered bytes to the transport without closing
// the response.
func (r *Response) Flush() error {
	if !r.headersSent {
		if err := r.commitHeaders(true); err != nil {
			return err
		}
	}
	return r.flushBuffered()
}

// Close finalizes the response: if nothing has forced streaming yet,
// Content-Length is inferred from the buffered body and flushed in one
// write; if streaming was committed, any remaining buffered bytes are
// flushed and, for chunked mode, the terminator is sent.
func (r *Response) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if !r.headersSent {
		if err := r.commitHeaders(false); err != nil {
			return err
		}
		return r.flushBuffered()
	}

	if err := r.flushBuffered(); err != nil {
		return err
	}
	if r.mode == modeChunked && !r.skipContent {
		if _, err := r.req.Connection.Write([]byte("0\r\n\r\n")); err != nil {
			return ErrorWrite.Error(err)
		}
	}
	return nil
}

// KeepAlive reports whether, per the framing mode finally committed
// to, the connection may be reused for another request. Valid only
// after Close.
func (r *Response) KeepAlive() bool {
	switch r.mode {
	case modeChunked:
		return true
	case modeLength:
		return r.keepAliveRequested()
	default:
		return false
	}
}

// SentBytes returns the number of body bytes flushed to the transport
// so far.
func (r *Response) SentBytes() int64 { return r.sentBytes }
