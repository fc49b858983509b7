package websocket

import (
	"crypto/sha1"
	"encoding/base64"
	"strings"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

const magic13 = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// AcceptKey computes the Sec-WebSocket-Accept value for a given
// Sec-WebSocket-Key, per RFC 6455 section 1.3.
func AcceptKey(key string) string {
	sum := sha1.Sum([]byte(key + magic13))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// IsUpgradeRequest reports whether req carries the headers required to
// attempt a WebSocket handshake, without validating them.
func IsUpgradeRequest(req *request.Request) bool {
	upgrade, _ := req.Headers.Get("Upgrade")
	return strings.EqualFold(strings.TrimSpace(upgrade), "websocket")
}

// Upgrade validates the handshake headers, writes the 101 response,
// and returns a WebSocket bound to req's transport. It returns
// (nil, nil) — not an error — when req does not carry an Upgrade:
// websocket header at all, so callers can fall through to ordinary
// HTTP handling; it returns an error only once a websocket upgrade
// was clearly attempted but is malformed (bad version, missing key).
func Upgrade(req *request.Request, res *response.Response) (*WebSocket, error) {
	if existing, ok := req.WebSocket.(*WebSocket); ok && existing != nil {
		return existing, nil
	}
	if !IsUpgradeRequest(req) {
		return nil, nil
	}

	key, hasKey := req.Headers.Get("Sec-WebSocket-Key")
	version, hasVersion := req.Headers.Get("Sec-WebSocket-Version")
	if !hasKey || !hasVersion {
		return nil, errs.New(ErrorNotUpgrade, "missing Sec-WebSocket-Key or Sec-WebSocket-Version", nil)
	}
	if strings.TrimSpace(version) != "13" {
		return nil, errs.New(ErrorUnsupportedVersion, "unsupported version "+version, nil)
	}

	res.SetCode(101)
	res.SetHeader("Upgrade", "websocket")
	res.SetHeader("Connection", "Upgrade")
	res.SetHeader("Sec-WebSocket-Accept", AcceptKey(key))
	if protocol, ok := req.Headers.Get("Sec-WebSocket-Protocol"); ok {
		res.SetHeader("Sec-WebSocket-Protocol", protocol)
	}
	// Declaring a zero length alongside the upgrade lets some clients
	// (notably Chrome) close the HTTP phase of the connection cleanly
	// before frame traffic starts.
	res.SetLength(0)
	if err := res.WriteHeaders(); err != nil {
		return nil, err
	}

	ws := &WebSocket{
		req:    req,
		res:    res,
		log:    onlog.For("websocket"),
		opcode: OpText,
	}
	req.WebSocket = ws
	return ws, nil
}
