package server

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgServer) {
		errs.RegisterIdFctMessage(errs.MinPkgServer, getMessage)
	}
}

const (
	ErrorValidation errs.CodeError = errs.MinPkgServer + iota
	ErrorAlreadyRunning
	ErrorNotRunning
	ErrorListen
	ErrorLoadConfig
	ErrorPoller
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorValidation:
		return "server configuration failed validation"
	case ErrorAlreadyRunning:
		return "server is already running"
	case ErrorNotRunning:
		return "server is not running"
	case ErrorListen:
		return "failed to start a listen point"
	case ErrorLoadConfig:
		return "failed to load server configuration"
	case ErrorPoller:
		return "failed to start the poller"
	}
	return ""
}
