package parser

import "bytes"

// boundaryScanner finds a fixed delimiter inside a byte stream fed in
// arbitrary chunks, emitting content as soon as it's known not to be
// part of the delimiter. It never holds more than len(token)-1 bytes
// of lookback, which is what lets statePut's sibling, multipart body
// reading, stream straight to a temp file instead of buffering a
// whole part in memory.
type boundaryScanner struct {
	token []byte
	held  []byte
}

func newBoundaryScanner(token []byte) *boundaryScanner {
	return &boundaryScanner{token: token}
}

// feed appends data to the held buffer and reports:
//   - emit: content bytes now safe to flush to the current part
//   - rest: bytes immediately following the delimiter, still in data,
//     if the delimiter was found this call
//   - found: whether the delimiter was found
//
// When found is false, all of data has been consumed into emit/held
// and the caller should wait for more.
func (s *boundaryScanner) feed(data []byte) (emit []byte, rest []byte, found bool) {
	s.held = append(s.held, data...)

	if idx := bytes.Index(s.held, s.token); idx >= 0 {
		emit = append([]byte(nil), s.held[:idx]...)
		rest = append([]byte(nil), s.held[idx+len(s.token):]...)
		s.held = nil
		return emit, rest, true
	}

	keep := len(s.token) - 1
	if keep < 0 {
		keep = 0
	}
	if len(s.held) > keep {
		cut := len(s.held) - keep
		emit = append([]byte(nil), s.held[:cut]...)
		s.held = append([]byte(nil), s.held[cut:]...)
	}
	return emit, nil, false
}
