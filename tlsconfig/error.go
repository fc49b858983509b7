package tlsconfig

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgTLSConfig) {
		errs.RegisterIdFctMessage(errs.MinPkgTLSConfig, getMessage)
	}
}

const (
	ErrorValidation errs.CodeError = errs.MinPkgTLSConfig + iota
	ErrorLoadCertificate
	ErrorLoadCA
	ErrorNoCertificate
	ErrorWatch
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorValidation:
		return "TLS configuration failed validation"
	case ErrorLoadCertificate:
		return "failed to load a certificate"
	case ErrorLoadCA:
		return "failed to load a CA bundle"
	case ErrorNoCertificate:
		return "no certificate configured"
	case ErrorWatch:
		return "failed to watch certificate file for changes"
	}
	return ""
}
