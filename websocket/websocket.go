package websocket

import (
	"encoding/binary"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
)

// Callback is invoked whenever new frame bytes are available while
// Serve is driving the connection. dataLeft is the number of
// unconsumed body bytes left in the current frame; the callback may
// call Read to consume some or all of it, and may call SetCallback to
// install a different callback for the next round. A negative
// dataLeft signals that the connection is being torn down.
type Callback func(ws *WebSocket, dataLeft int) handler.Status

// WebSocket is the per-connection framing state for an upgraded
// request. It is not safe for concurrent use.
type WebSocket struct {
	req *request.Request
	res *response.Response
	log *logrus.Entry

	opcode Opcode

	dataLeft uint64
	masked   bool
	mask     [4]byte
	maskPos  int

	callback Callback
	userData interface{}

	closed bool
}

// SetOpcode sets the opcode used for subsequent Write calls. Defaults
// to OpText.
func (ws *WebSocket) SetOpcode(op Opcode) { ws.opcode = op }

// Opcode returns the opcode of the frame currently being read, or the
// write opcode if no frame has been read yet.
func (ws *WebSocket) Opcode() Opcode { return ws.opcode }

// SetCallback installs (or replaces) the callback driving Serve.
func (ws *WebSocket) SetCallback(cb Callback) { ws.callback = cb }

// SetUserData attaches arbitrary connection-scoped state.
func (ws *WebSocket) SetUserData(v interface{}) { ws.userData = v }

// UserData returns whatever was last passed to SetUserData.
func (ws *WebSocket) UserData() interface{} { return ws.userData }

func (ws *WebSocket) conn() request.Conn { return ws.req.Connection }

func readFull(c request.Conn, buf []byte) error {
	n := 0
	for n < len(buf) {
		k, err := c.Read(buf[n:])
		if k > 0 {
			n += k
		}
		if err != nil {
			if err == io.EOF && n == len(buf) {
				return nil
			}
			return err
		}
	}
	return nil
}

// readFrameHeader reads the next frame's fixed header, extended
// length, and optional mask key, and stores the result on ws. Control
// frames (ping/close) are handled inline, matching the original
// library's behavior of never surfacing them to the callback.
func (ws *WebSocket) readFrameHeader() error {
	var hdr [2]byte
	if err := readFull(ws.conn(), hdr[:]); err != nil {
		return errs.New(ErrorFrameRead, "reading frame header", err)
	}

	// Fragmented messages (FIN=0) are not reassembled; each Read call
	// surfaces exactly one frame's payload, matching the original
	// library's behavior of treating every frame independently.
	ws.opcode = Opcode(hdr[0] & 0x0F)
	ws.masked = hdr[1]&0x80 != 0
	length := uint64(hdr[1] & 0x7F)

	switch length {
	case 126:
		var ext [2]byte
		if err := readFull(ws.conn(), ext[:]); err != nil {
			return errs.New(ErrorFrameRead, "reading 16-bit length", err)
		}
		length = uint64(binary.BigEndian.Uint16(ext[:]))
	case 127:
		var ext [8]byte
		if err := readFull(ws.conn(), ext[:]); err != nil {
			return errs.New(ErrorFrameRead, "reading 64-bit length", err)
		}
		length = binary.BigEndian.Uint64(ext[:])
	}
	ws.dataLeft = length

	if ws.masked {
		if err := readFull(ws.conn(), ws.mask[:]); err != nil {
			return errs.New(ErrorFrameRead, "reading mask key", err)
		}
		ws.maskPos = 0
	}

	switch ws.opcode {
	case OpPing:
		payload := make([]byte, ws.dataLeft)
		if err := readFull(ws.conn(), payload); err != nil {
			return errs.New(ErrorFrameRead, "reading ping payload", err)
		}
		if ws.masked {
			for i := range payload {
				payload[i] ^= ws.mask[ws.maskPos&3]
				ws.maskPos++
			}
		}
		ws.dataLeft = 0
		ws.SetOpcode(OpPong)
		if _, err := ws.Write(payload); err != nil {
			return err
		}
		return ws.readFrameHeader()

	case OpClose:
		var status [2]byte
		if ws.dataLeft >= 2 {
			if err := readFull(ws.conn(), status[:]); err != nil {
				return errs.New(ErrorFrameRead, "reading close status", err)
			}
			if ws.masked {
				status[0] ^= ws.mask[0]
				status[1] ^= ws.mask[1]
			}
			ws.dataLeft -= 2
		}
		ws.log.WithField("status", binary.BigEndian.Uint16(status[:])).Debug("client closed websocket")
		_ = ws.Close(status[:])
		return errs.New(ErrorClosed, "connection closed by peer", nil)
	}
	return nil
}

// Read consumes up to len(p) bytes of the current (or next) frame's
// payload, unmasking as it goes, blocking on the transport if no
// frame is currently open. It returns fewer bytes than requested only
// at a frame boundary; callers wanting exactly len(p) bytes across
// frames should loop.
func (ws *WebSocket) Read(p []byte) (int, error) {
	if ws.closed {
		return 0, errs.New(ErrorClosed, "read after close", nil)
	}
	if ws.dataLeft == 0 {
		if err := ws.readFrameHeader(); err != nil {
			return 0, err
		}
	}

	want := uint64(len(p))
	if want > ws.dataLeft {
		want = ws.dataLeft
	}
	n, err := ws.conn().Read(p[:want])
	if ws.masked {
		for i := 0; i < n; i++ {
			p[i] ^= ws.mask[ws.maskPos&3]
			ws.maskPos++
		}
	}
	ws.dataLeft -= uint64(n)
	if err != nil {
		ws.closed = true
		return n, errs.New(ErrorFrameRead, "reading frame body", err)
	}
	return n, nil
}

// Write sends p as a single unmasked fragment using the current
// opcode, with FIN set, per section 6.2's server-to-client contract.
func (ws *WebSocket) Write(p []byte) (int, error) {
	if ws.closed {
		return 0, errs.New(ErrorClosed, "write after close", nil)
	}
	header := make([]byte, 2, 10)
	header[0] = 0x80 | byte(ws.opcode&0x0F)

	switch {
	case len(p) < 126:
		header[1] = byte(len(p))
	case len(p) <= 0xFFFF:
		header[1] = 126
		ext := make([]byte, 2)
		binary.BigEndian.PutUint16(ext, uint16(len(p)))
		header = append(header, ext...)
	default:
		header[1] = 127
		ext := make([]byte, 8)
		binary.BigEndian.PutUint64(ext, uint64(len(p)))
		header = append(header, ext...)
	}

	if _, err := ws.conn().Write(header); err != nil {
		return 0, errs.New(ErrorFrameWrite, "writing frame header", err)
	}
	if len(p) == 0 {
		return 0, nil
	}
	n, err := ws.conn().Write(p)
	if err != nil {
		return n, errs.New(ErrorFrameWrite, "writing frame payload", err)
	}
	return n, nil
}

// Close sends a CLOSE frame (echoing status if non-empty, or the
// normal-closure code 1000 otherwise) and marks the connection
// closed. If a callback is installed it is invoked once more with a
// negative length as a shutdown signal, matching the original
// library's free-time contract.
func (ws *WebSocket) Close(status []byte) error {
	if ws.closed {
		return nil
	}
	payload := status
	if len(payload) == 0 {
		payload = []byte{0x03, 0xE8} // 1000, normal closure
	}
	prevOpcode := ws.opcode
	ws.opcode = OpClose
	_, err := ws.Write(payload)
	ws.opcode = prevOpcode
	ws.closed = true

	if ws.callback != nil {
		cb := ws.callback
		ws.callback = nil
		cb(ws, -1)
	}
	return err
}

// Serve drives the callback loop until the callback unsets itself or
// the connection closes, returning the terminal handler.Status
// (typically CloseConnection).
func (ws *WebSocket) Serve() handler.Status {
	for {
		if ws.callback == nil {
			_ = ws.Close(nil)
			return handler.CloseConnection
		}
		if ws.dataLeft == 0 {
			if err := ws.readFrameHeader(); err != nil {
				return handler.CloseConnection
			}
		}
		before := ws.dataLeft
		st := ws.callback(ws, int(ws.dataLeft))
		if st == handler.CloseConnection || ws.closed {
			return handler.CloseConnection
		}
		if ws.dataLeft == before && ws.callback != nil {
			// Callback declined to consume anything; avoid spinning.
			return handler.Yield
		}
	}
}
