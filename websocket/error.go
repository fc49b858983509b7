package websocket

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgWebsocket) {
		errs.RegisterIdFctMessage(errs.MinPkgWebsocket, getMessage)
	}
}

const (
	ErrorNotUpgrade errs.CodeError = errs.MinPkgWebsocket + iota
	ErrorUnsupportedVersion
	ErrorFrameRead
	ErrorFrameWrite
	ErrorClosed
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorNotUpgrade:
		return "request is not a websocket upgrade"
	case ErrorUnsupportedVersion:
		return "unsupported websocket version, only 13 is accepted"
	case ErrorFrameRead:
		return "failed reading a websocket frame"
	case ErrorFrameWrite:
		return "failed writing a websocket frame"
	case ErrorClosed:
		return "websocket connection is closed"
	}
	return ""
}
