// Package parser implements the resumable HTTP/1.x request parser: a
// state machine that consumes arbitrary byte chunks and eventually
// produces a fully populated request.Request.
//
// Unlike the original C implementation's function-pointer "next
// state" continuations, the state is a plain tagged enum (State) and
// Feed dispatches through a single switch, which keeps the whole
// machine exhaustively checkable and trivially resumable: every
// unconsumed byte lives in the scratch buffer attached to the
// request, so splitting a request at any byte boundary across
// multiple Feed calls produces identical results to feeding it whole.
package parser
