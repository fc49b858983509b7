// Package errs implements the typed error taxonomy shared by every
// onion sub-package, modeled on github.com/nabbar/golib/errors: a
// package-scoped uint16 code space, a registered message lookup, and
// an Error type that chains parent causes instead of wrapping them in
// an opaque string.
//
// Each sub-package reserves a contiguous code range starting at one
// of the MinPkgXxx constants below and registers its own message
// function via RegisterIdFctMessage in an init().
package errs
