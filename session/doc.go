// Package session provides pluggable per-client session storage keyed
// by a browser cookie.
//
// A Store holds dict.Dict snapshots keyed by session id; MemoryStore is
// the default in-process backend. Wrap any handler.Handler with
// Wrap to attach a lazily-allocated session dict to every request: the
// dict is only persisted, and only then is an id minted and a
// "sessionid" cookie queued, if the wrapped handler actually wrote
// something into it. A request that never touches its session produces
// no cookie and no storage entry, unlike the original library, which
// allocates a session row on first access even if it stays empty.
package session
