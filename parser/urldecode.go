package parser

import (
	"net/url"
	"strings"

	"github.com/onion-http/onion/dict"
)

// parseQueryInto URL-decodes a "k=v&k2=v2" style string into d.
// application/x-www-form-urlencoded and a request-target's query
// suffix share this exact grammar.
func parseQueryInto(d *dict.Dict, raw string) {
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		k, err := url.QueryUnescape(strings.ReplaceAll(kv[0], "+", " "))
		if err != nil {
			k = kv[0]
		}
		v := ""
		if len(kv) == 2 {
			v, err = url.QueryUnescape(strings.ReplaceAll(kv[1], "+", " "))
			if err != nil {
				v = kv[1]
			}
		}
		if k != "" {
			d.AddString(k, v)
		}
	}
}

// splitRequestTarget separates a request-target into its path and raw
// query string. The path is kept exactly as received — only the query
// portion is URL-decoded, matching how the dispatcher matches against
// the literal path.
func splitRequestTarget(target string) (path, query string) {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return target, ""
}
