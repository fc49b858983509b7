package poller

import "time"

// Interest selects which readiness direction a Slot cares about.
type Interest int

const (
	Read Interest = iota
	Write
	All
)

// Slot is a poller registration record: a file descriptor, its
// readiness callback, an optional shutdown hook run on timeout or
// removal, and a per-slot timeout.
//
// OnReady returns the number of milliseconds to re-arm the slot's
// timeout for, or a negative value to request the slot be removed
// (connection is done, or an unrecoverable error occurred). Returning
// zero re-arms with no timeout change.
type Slot struct {
	Fd         int
	UserData   interface{}
	Interest   Interest
	Timeout    time.Duration
	OnReady    func(s *Slot) int
	OnShutdown func(s *Slot)

	// residual is the remaining time before this slot expires,
	// decremented by the Poller on every Poll() wakeup.
	residual time.Duration
	deadline time.Time
}

// Poller is the readiness-multiplexer contract. Implementations wrap
// the host OS's native readiness API (epoll on Linux, kqueue on
// BSD/Darwin) in one-shot mode.
type Poller interface {
	// Add registers a slot. The slot is dispatched at most once until
	// re-armed by a subsequent OnReady return or another Add call.
	Add(s *Slot) error

	// Remove unregisters fd, invoking the slot's OnShutdown hook if
	// present.
	Remove(fd int) error

	// Get returns the currently registered slot for fd, if any.
	Get(fd int) (*Slot, bool)

	// Poll blocks processing readiness events and expiring timed-out
	// slots until Stop is called. Multiple goroutines may call Poll
	// concurrently on the same Poller; a given slot is delivered to
	// exactly one of them at a time.
	Poll() error

	// Stop wakes every goroutine blocked in Poll and makes them
	// return nil. In-flight OnReady callbacks are allowed to finish.
	Stop()

	// Close releases OS resources. Poll must not be called afterward.
	Close() error
}
