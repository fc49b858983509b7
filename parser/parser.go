package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/request"
)

// resultContinue is an internal sentinel meaning the step made
// progress and another step should be attempted immediately without
// waiting for more socket data.
const resultContinue Result = -1

// Config bounds the parser's resource usage.
type Config struct {
	// MaxPostSize caps a buffered body (urlencoded, Content-Length, or
	// a single in-memory multipart field).
	MaxPostSize int64
	// MaxFileSize caps a PUT body or multipart file part streamed to
	// disk.
	MaxFileSize int64
	// TempDir is where streamed bodies are written. Empty uses the
	// system default.
	TempDir string
}

func (c Config) withDefaults() Config {
	if c.MaxPostSize <= 0 {
		c.MaxPostSize = defaultMaxPostSize
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = defaultMaxFileSize
	}
	return c
}

// Parser is a stateless, reusable driver for the request grammar; all
// mutable state lives in the scratch value stashed on each Request, so
// one Parser safely serves every connection a listen point accepts.
type Parser struct {
	cfg Config
	log *logrus.Entry
}

// New returns a Parser bounded by cfg.
func New(cfg Config) *Parser {
	return &Parser{cfg: cfg.withDefaults(), log: onlog.For("parser")}
}

// Feed appends data to req's in-progress parse and advances the state
// machine as far as it can go. On RequestReady, NotImplemented, or
// InternalError, the returned leftover slice holds any bytes already
// read past the end of this request (e.g. a pipelined next request)
// that the caller should replay into a fresh parse after resetting
// req.
func (p *Parser) Feed(req *request.Request, data []byte) (Result, []byte) {
	sc, ok := getScratch(req.ParserState)
	if !ok {
		sc = newScratch()
		req.ParserState = sc
	}
	sc.buf = append(sc.buf, data...)

	for {
		res := p.step(req, sc)
		switch res {
		case resultContinue:
			continue
		case NeedMoreData:
			return NeedMoreData, nil
		default:
			leftover := sc.buf
			sc.buf = nil
			return res, leftover
		}
	}
}

func (p *Parser) step(req *request.Request, sc *scratch) Result {
	switch sc.state {
	case stateMethod:
		return p.stepMethod(req, sc)
	case stateURL:
		return p.stepURL(req, sc)
	case stateVersion:
		return p.stepVersion(req, sc)
	case stateHeaderKey:
		return p.stepHeaderKey(req, sc)
	case stateHeaderValue:
		return p.stepHeaderValue(req, sc)
	case stateBodyDecide:
		return p.stepBodyDecide(req, sc)
	case statePostURLEncoded:
		return p.stepPostURLEncoded(req, sc)
	case stateContentLength:
		return p.stepContentLength(req, sc)
	case statePut:
		return p.stepPut(req, sc)
	case stateMultipartStart:
		return p.stepMultipartStart(req, sc)
	case stateMultipartHeaderKey:
		return p.stepMultipartHeaderKey(req, sc)
	case stateMultipartHeaderValue:
		return p.stepMultipartHeaderValue(req, sc)
	case stateMultipartBody:
		return p.stepMultipartBody(req, sc)
	default:
		return InternalError
	}
}
