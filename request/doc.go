// Package request implements the per-connection request object: the
// state a connection accumulates between being accepted and its
// response being flushed, reused across keep-alive requests on the
// same connection until the connection closes.
//
// A Request is touched exclusively by the goroutine its owning
// connection is currently dispatched to (the poller guarantees a
// connection is never handed to two goroutines at once), so the
// struct itself carries no internal locking.
package request
