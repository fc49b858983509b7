// Package onlog is the structured-logging façade shared by every
// onion sub-package. It wraps github.com/sirupsen/logrus the way
// github.com/nabbar/golib/logger wraps it: a single process-wide
// logger, field-scoped child loggers per component, and an
// environment variable (ONION_LOG) that toggles verbosity and
// formatting at startup instead of requiring code changes.
package onlog

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	base *logrus.Logger
)

// Root returns the process-wide logrus logger, configured once from
// the ONION_LOG environment variable on first use.
//
// ONION_LOG is a comma-separated set of substrings:
//   - "nodebug": suppress debug-level logs (default: enabled)
//   - "noinfo": suppress info-level logs
//   - "nocolor": disable ANSI color in the text formatter
//   - "syslog": use a plain, timestamp-only formatter suited to
//     syslog/journald forwarding instead of the colorized terminal one
func Root() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)

		spec := strings.ToLower(os.Getenv("ONION_LOG"))
		flags := make(map[string]bool)
		for _, f := range strings.Split(spec, ",") {
			if f != "" {
				flags[strings.TrimSpace(f)] = true
			}
		}

		level := logrus.DebugLevel
		if flags["noinfo"] {
			level = logrus.WarnLevel
		} else if flags["nodebug"] {
			level = logrus.InfoLevel
		}
		base.SetLevel(level)

		if flags["syslog"] {
			base.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
		} else {
			base.SetFormatter(&logrus.TextFormatter{DisableColors: flags["nocolor"], FullTimestamp: true})
		}
	})
	return base
}

// For returns a logger scoped to the given component name, e.g.
// For("parser") or For("poller").
func For(component string) *logrus.Entry {
	return Root().WithField("component", component)
}

// SetOutput is a test hook allowing Ginkgo specs to capture log
// output instead of polluting stderr.
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	Root().SetOutput(w)
}
