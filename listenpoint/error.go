package listenpoint

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgListenPoint) {
		errs.RegisterIdFctMessage(errs.MinPkgListenPoint, getMessage)
	}
}

const (
	ErrorListen errs.CodeError = errs.MinPkgListenPoint + iota
	ErrorAccept
	ErrorHandshake
	ErrorNotListening
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorListen:
		return "failed to bind the listening socket"
	case ErrorAccept:
		return "failed to accept an incoming connection"
	case ErrorHandshake:
		return "TLS handshake failed"
	case ErrorNotListening:
		return "listen point is not listening"
	}
	return ""
}
