package request

import (
	"net"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/onion-http/onion/block"
	"github.com/onion-http/onion/dict"
)

// Flag is a bitset of per-request state flags.
type Flag uint8

const (
	FlagHTTP11 Flag = 1 << iota
	FlagNoKeepAlive
	FlagError
	FlagHeadersSent
)

// Request is the per-connection object the parser fills in and
// handlers read from. It is created once by a listen point's Accept
// and reused across keep-alive requests via Reset until the
// connection closes.
type Request struct {
	ID         string
	Connection Conn

	flags  Flag
	method Method

	fullPath   string
	pathOffset int

	Headers *dict.Dict
	GETArgs *dict.Dict
	POST    *dict.Dict
	Files   *dict.Dict
	cookies *dict.Dict

	SessionID string
	session   *dict.Dict

	Data *block.Block

	// ParserState is opaque scratch owned by the current parser
	// state; the parser package is the only reader/writer.
	ParserState interface{}

	// WebSocket is set by the websocket package's Upgrade once a
	// connection has been switched to frame mode.
	WebSocket interface{}

	FreeList *FreeList
}

// New allocates a Request bound to a freshly accepted connection.
func New(c Conn) *Request {
	r := &Request{
		ID:         uuid.NewString(),
		Connection: c,
		Headers:    dict.New(dict.CaseInsensitive()),
		GETArgs:    dict.New(),
		POST:       dict.New(),
		Files:      dict.New(),
		FreeList:   newFreeList(),
	}
	return r
}

// Reset clears per-request state for reuse on a keep-alive
// connection, running (and discarding) the free-list first.
func (r *Request) Reset() {
	r.FreeList.Run()
	r.FreeList = newFreeList()

	r.flags = 0
	r.method = MethodUnknown
	r.fullPath = ""
	r.pathOffset = 0
	r.Headers = dict.New(dict.CaseInsensitive())
	r.GETArgs = dict.New()
	r.POST = dict.New()
	r.Files = dict.New()
	r.cookies = nil
	r.SessionID = ""
	r.session = nil
	r.Data = nil
	r.ParserState = nil
	r.WebSocket = nil
	r.ID = uuid.NewString()
}

// Close tears down the connection and runs the free-list, deleting
// any temp files created by multipart or PUT body handling.
func (r *Request) Close() error {
	r.FreeList.Run()
	if r.Connection != nil {
		return r.Connection.Close()
	}
	return nil
}

// Method returns the parsed request method.
func (r *Request) Method() Method { return r.method }

// SetMethod is used by the parser once the method token is matched.
func (r *Request) SetMethod(m Method) { r.method = m }

// SetFullPath is used by the parser once the path token is read. Path
// resets to the start of fullPath.
func (r *Request) SetFullPath(p string) {
	r.fullPath = p
	r.pathOffset = 0
}

// FullPath returns the complete request-target path as received.
func (r *Request) FullPath() string { return r.fullPath }

// Path returns the unconsumed suffix of FullPath. The URL dispatcher
// advances this as it descends nested routers.
func (r *Request) Path() string {
	if r.pathOffset > len(r.fullPath) {
		return ""
	}
	return r.fullPath[r.pathOffset:]
}

// Advance consumes n bytes of the current Path, exposing the rest to
// nested dispatch.
func (r *Request) Advance(n int) {
	r.pathOffset += n
	if r.pathOffset > len(r.fullPath) {
		r.pathOffset = len(r.fullPath)
	}
}

// SetFlag / ClearFlag / HasFlag manage the request flag bitset.
func (r *Request) SetFlag(f Flag)      { r.flags |= f }
func (r *Request) ClearFlag(f Flag)    { r.flags &^= f }
func (r *Request) HasFlag(f Flag) bool { return r.flags&f != 0 }

// IsHTTP11 reports whether the client declared HTTP/1.1.
func (r *Request) IsHTTP11() bool { return r.HasFlag(FlagHTTP11) }

// RemoteAddress returns the peer socket description, matching the
// original onion_request_get_client_description contract.
func (r *Request) RemoteAddress() string {
	if r.Connection == nil {
		return ""
	}
	if a := r.Connection.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}

// LocalAddress returns the local socket description.
func (r *Request) LocalAddress() string {
	if r.Connection == nil {
		return ""
	}
	if a := r.Connection.LocalAddr(); a != nil {
		return a.String()
	}
	return ""
}

// RemoteIP returns just the IP portion of RemoteAddress, when parsable.
func (r *Request) RemoteIP() string {
	addr := r.RemoteAddress()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// Cookies lazily parses the Cookie header into a dict the first time
// it's requested.
func (r *Request) Cookies() *dict.Dict {
	if r.cookies != nil {
		return r.cookies
	}
	r.cookies = dict.New()
	raw, ok := r.Headers.Get("Cookie")
	if !ok {
		return r.cookies
	}
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		k := strings.TrimSpace(kv[0])
		v := ""
		if len(kv) == 2 {
			if dec, err := url.QueryUnescape(kv[1]); err == nil {
				v = dec
			} else {
				v = kv[1]
			}
		}
		if k != "" {
			r.cookies.AddString(k, v)
		}
	}
	return r.cookies
}

// CookieCandidates returns every value presented under name in the
// Cookie header, tolerant of the client sending it more than once —
// used by the session package to try each candidate id in order.
func (r *Request) CookieCandidates(name string) []string {
	var out []string
	r.Cookies().Preorder(func(k string, v dict.Value) bool {
		if k == name {
			out = append(out, v.AsString())
		}
		return true
	})
	return out
}

// Session returns the lazily-resolved session dict, or nil if none
// has been attached by the session middleware yet.
func (r *Request) Session() *dict.Dict { return r.session }

// SetSession attaches a resolved session dict (and its id) to the
// request.
func (r *Request) SetSession(id string, d *dict.Dict) {
	r.SessionID = id
	r.session = d
}
