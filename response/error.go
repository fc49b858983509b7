package response

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgResponse) {
		errs.RegisterIdFctMessage(errs.MinPkgResponse, getMessage)
	}
}

const (
	ErrorWrite errs.CodeError = errs.MinPkgResponse + iota
	ErrorAlreadySent
	ErrorCookieTooLarge
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorWrite:
		return "failed writing to the connection"
	case ErrorAlreadySent:
		return "headers already sent"
	case ErrorCookieTooLarge:
		return "cookie exceeds the 4KiB limit"
	}
	return ""
}
