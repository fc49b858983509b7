// Package tlsconfig builds a *tls.Config for an HTTPS listen point
// from a validator-tagged Config, the way nabbar/golib/certificates
// builds one: certificate material may be given as inline PEM, a PEM
// file path, or a PKCS#12 bundle, and an optional watcher can hot-swap
// the served certificate when its file changes on disk.
package tlsconfig
