package response

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SameSite is the Set-Cookie SameSite attribute.
type SameSite int

const (
	SameSiteDefault SameSite = iota
	SameSiteNone
	SameSiteLax
	SameSiteStrict
)

// CookieOptions carries the optional Set-Cookie attributes.
type CookieOptions struct {
	Expires  time.Time
	Path     string
	Domain   string
	HttpOnly bool
	Secure   bool
	SameSite SameSite
}

const maxCookieSize = 4096

// AddCookie appends a Set-Cookie header for name=value with the given
// attributes. Cookies whose serialized form exceeds 4KiB are refused
// and logged rather than silently truncated.
func (r *Response) AddCookie(name, value string, opts CookieOptions) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s", name, url.QueryEscape(value))

	if !opts.Expires.IsZero() {
		fmt.Fprintf(&b, "; Expires=%s", opts.Expires.UTC().Format(time.RFC1123))
	}
	if opts.Path != "" {
		fmt.Fprintf(&b, "; Path=%s", opts.Path)
	}
	if opts.Domain != "" {
		fmt.Fprintf(&b, "; Domain=%s", opts.Domain)
	}
	if opts.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if opts.Secure {
		b.WriteString("; Secure")
	}
	switch opts.SameSite {
	case SameSiteNone:
		b.WriteString("; SameSite=None")
	case SameSiteLax:
		b.WriteString("; SameSite=Lax")
	case SameSiteStrict:
		b.WriteString("; SameSite=Strict")
	}

	out := b.String()
	if len(out) > maxCookieSize {
		r.log.WithField("cookie", name).Warn("refusing oversized cookie")
		return ErrorCookieTooLarge.Error(nil)
	}
	r.Headers.AddString("Set-Cookie", out)
	return nil
}
