// Package handler defines the connection status taxonomy and the
// Handler/Chain types that compose request processing, mirroring the
// original library's ordered "try each node, first non-NOT_PROCESSED
// wins" dispatch model.
package handler
