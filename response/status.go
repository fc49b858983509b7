package response

var reasonPhrases = map[int]string{
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	206: "Partial Content",
	207: "Multi-Status",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	416: "Range Not Satisfiable",
	418: "I'm a teapot",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

// ReasonPhrase returns the status line reason phrase for code, falling
// back to "Unknown" for codes outside the supported set.
func ReasonPhrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Unknown"
}
