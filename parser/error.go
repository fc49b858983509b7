package parser

import "github.com/onion-http/onion/errs"

func init() {
	if !errs.ExistInMapMessage(errs.MinPkgParser) {
		errs.RegisterIdFctMessage(errs.MinPkgParser, getMessage)
	}
}

const (
	ErrorTokenTooLarge errs.CodeError = errs.MinPkgParser + iota
	ErrorHeaderSectionTooLarge
	ErrorMalformedRequestLine
	ErrorBodyTooLarge
	ErrorTempFile
	ErrorMalformedMultipart
)

func getMessage(c errs.CodeError) string {
	switch c {
	case ErrorTokenTooLarge:
		return "request line or header token exceeds the size cap"
	case ErrorHeaderSectionTooLarge:
		return "accumulated header section exceeds the size cap"
	case ErrorMalformedRequestLine:
		return "malformed request line"
	case ErrorBodyTooLarge:
		return "request body exceeds the configured limit"
	case ErrorTempFile:
		return "failed to stream request body to a temp file"
	case ErrorMalformedMultipart:
		return "malformed multipart body"
	}
	return ""
}
