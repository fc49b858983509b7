package parser

import "bytes"

// findDelim scans buf for the first byte in delims. It reports the
// token before the delimiter, the number of input bytes consumed
// (including the delimiter itself), the delimiter byte found, and
// whether a delimiter was found at all. CR bytes immediately before
// the delimiter are stripped, since CR is ignored outside of body
// reads and only LF terminates a logical line.
func findDelim(buf []byte, delims string) (tok []byte, consumed int, delim byte, ok bool) {
	idx := bytes.IndexAny(buf, delims)
	if idx < 0 {
		return nil, 0, 0, false
	}
	tok = buf[:idx]
	if len(tok) > 0 && tok[len(tok)-1] == '\r' {
		tok = tok[:len(tok)-1]
	}
	return tok, idx + 1, buf[idx], true
}

// findLine scans buf for a trailing LF-terminated line, stripping a
// trailing CR the same way findDelim does.
func findLine(buf []byte) (line []byte, consumed int, ok bool) {
	line, consumed, _, ok = findDelim(buf, "\n")
	return line, consumed, ok
}
