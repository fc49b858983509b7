// Package websocket upgrades an HTTP request to an RFC 6455 WebSocket
// connection and frames subsequent traffic on it.
//
// Upgrade performs the handshake and returns a *WebSocket bound to the
// request's transport. From there, handler code can either call Read
// directly (blocking mode) or install a Callback with SetCallback and
// let Serve drive the frame loop (callback mode); both may be used on
// the same connection at different times.
package websocket
