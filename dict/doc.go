// Package dict implements the ordered, reference-counted key-value
// dictionary used throughout the onion server for request headers,
// query arguments, POST fields, and session data.
//
// It is a multimap ordered by key: inserting a duplicate key without
// the Replace flag appends a second entry rather than overwriting the
// first, and lookups always return the earliest match. Values are
// either a string or a nested *Dict; nested dicts must form a DAG
// (the JSON codec enforces this implicitly since it only ever builds
// trees).
//
// Every Dict carries a reference count. SoftDup increments it and
// returns the same handle for sharing across goroutines; HardDup
// produces a structurally independent copy. Callers that receive a
// Dict from SoftDup (directly, or indirectly via session.Store.Get)
// must call Release when done.
package dict
