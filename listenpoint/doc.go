// Package listenpoint implements the HTTP and HTTPS transport
// vtables: binding a socket, accepting connections, and presenting
// each one to the request package as a request.Conn.
//
// An HTTP ListenPoint wraps a plain TCP listener. An HTTPS ListenPoint
// wraps the same listener with a tls.Config (see the tlsconfig
// package) and performs the TLS handshake eagerly in Accept, matching
// the original library's request_init contract where the connection
// is already usable by the time a Request exists for it.
package listenpoint
