package session

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgSession) {
		errs.RegisterIdFctMessage(errs.MinPkgSession, getMessage)
	}
}

const (
	ErrorIDGeneration errs.CodeError = errs.MinPkgSession + iota
	ErrorUnknownSession
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorIDGeneration:
		return "failed to generate a session id"
	case ErrorUnknownSession:
		return "no session exists for the given id"
	}
	return ""
}
