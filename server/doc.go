// Package server assembles a listen point, the HTTP parser, a handler
// chain, and the WebSocket frame loop into a running service, the way
// nabbar/golib/httpserver assembles its own collaborators behind a
// single Server façade.
//
// Two scheduling modes are supported (spec'd as three; "single
// request" mode is simply running Serve synchronously without calling
// Start/Wait). The default mode spawns one goroutine per accepted
// connection — the idiomatic Go equivalent of the original library's
// single-threaded polling loop, since the Go runtime already
// multiplexes goroutines onto OS threads. Setting FlagPool switches to
// a fixed worker pool driving a shared internal/poller instance in
// one-shot readiness mode, matching the original's thread-pool-sharing-
// a-poller design more literally for deployments that want bounded
// concurrency instead of one goroutine per connection.
package server
