// Package router dispatches requests by URL path to inner handlers.
//
// A Router holds an ordered list of patterns. A pattern starting with
// '^' is a regular expression, compiled with regexp.Compile and matched
// against the current (already-advanced) request path; any other
// pattern is matched with a full string comparison. On a match the
// path is advanced past the matched portion and the attached handler
// is invoked, so a regex pattern such as "^static/" can delegate the
// remainder of the path to a nested Router or any other handler.Handler.
//
// Router itself implements handler.Handler, so trees of routers compose
// the same way handler.Chain composes plain handlers.
package router
