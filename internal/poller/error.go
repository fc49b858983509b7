package poller

import "github.com/onion-http/onion/errs"

const (
	ErrorAddFailed errs.CodeError = errs.MinPkgPoller + iota
	ErrorRemoveFailed
	ErrorWaitFailed
	ErrorAlreadyClosed
	ErrorUnsupportedPlatform
)

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgPoller) {
		errs.RegisterIdFctMessage(errs.MinPkgPoller, getMessage)
	}
}

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorAddFailed:
		return "failed to register file descriptor with poller"
	case ErrorRemoveFailed:
		return "failed to unregister file descriptor from poller"
	case ErrorWaitFailed:
		return "readiness wait failed"
	case ErrorAlreadyClosed:
		return "poller already stopped"
	case ErrorUnsupportedPlatform:
		return "no native readiness backend for this platform"
	}
	return ""
}
