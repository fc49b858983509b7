package router

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgRouter) {
		errs.RegisterIdFctMessage(errs.MinPkgRouter, getMessage)
	}
}

const (
	ErrorBadPattern errs.CodeError = errs.MinPkgRouter + iota
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorBadPattern:
		return "invalid regular expression pattern"
	}
	return ""
}
