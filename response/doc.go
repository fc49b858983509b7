// Package response implements the buffered HTTP response writer:
// header staging, a small write-through buffer that infers
// Content-Length for short bodies, chunked transfer encoding for long
// or declared-length-free bodies, cookies, and the shared
// second-granular Date header cache.
package response
