package parser

import (
	"os"

	"github.com/onion-http/onion/block"
)

// scratch is the parser's per-request working state, stashed in
// Request.ParserState between Feed calls. buf holds every byte fed so
// far that hasn't yet been consumed by a completed state transition;
// splitting a request across Feed calls at any byte offset is safe
// because nothing is thrown away except what a state has fully
// matched.
type scratch struct {
	state state
	buf   []byte

	headerBytes int // cumulative bytes consumed across all header lines

	pendingKey   string
	pendingValue string
	haveFold     bool

	contentLength int64
	remaining     int64

	tempFile     *os.File
	tempFilePath string

	bodyBlock *block.Block

	boundary  []byte
	scanner   *boundaryScanner
	fieldName string
	fileName  string
	isFile    bool
}

func newScratch() *scratch {
	return &scratch{state: stateMethod}
}

func getScratch(ps interface{}) (*scratch, bool) {
	sc, ok := ps.(*scratch)
	return sc, ok
}
