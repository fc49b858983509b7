//go:build darwin || freebsd || netbsd || openbsd

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// kqueuePoller is the Poller backend for Darwin and the BSDs. Unlike
// epoll's EPOLLONESHOT, kqueue's EV_ONESHOT flag is set per
// registration and achieves the same one-shot-per-readiness-event
// semantics.
type kqueuePoller struct {
	kq     int
	slots  *slotTable
	stop   chan struct{}
	once   sync.Once
	muCls  sync.Mutex
	closed bool
}

// New returns the default Poller for this platform (kqueue).
func New() (Poller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, ErrorAddFailed.Error(err)
	}
	return &kqueuePoller{kq: kq, slots: newSlotTable(), stop: make(chan struct{})}, nil
}

func filterFor(i Interest) int16 {
	if i == Write {
		return unix.EVFILT_WRITE
	}
	return unix.EVFILT_READ
}

func (p *kqueuePoller) Add(s *Slot) error {
	p.slots.put(s)
	ev := unix.Kevent_t{
		Ident:  uint64(s.Fd),
		Filter: filterFor(s.Interest),
		Flags:  unix.EV_ADD | unix.EV_ONESHOT,
	}
	if _, err := unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil); err != nil {
		p.slots.drop(s.Fd)
		return ErrorAddFailed.Error(err)
	}
	return nil
}

func (p *kqueuePoller) Remove(fd int) error {
	s, ok := p.slots.drop(fd)
	if !ok {
		return nil
	}
	ev := unix.Kevent_t{Ident: uint64(fd), Filter: filterFor(s.Interest), Flags: unix.EV_DELETE}
	_, _ = unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil)
	if s.OnShutdown != nil {
		s.OnShutdown(s)
	}
	return nil
}

func (p *kqueuePoller) Get(fd int) (*Slot, bool) {
	return p.slots.get(fd)
}

func (p *kqueuePoller) Poll() error {
	events := make([]unix.Kevent_t, 128)
	for {
		select {
		case <-p.stop:
			return nil
		default:
		}

		var ts *unix.Timespec
		if d, ok := p.slots.nextDeadline(); ok {
			if d < time.Millisecond {
				d = time.Millisecond
			}
			t := unix.NsecToTimespec(d.Nanoseconds())
			ts = &t
		}

		n, err := unix.Kevent(p.kq, nil, events, ts)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return ErrorWaitFailed.Error(err)
		}

		p.slots.fireExpired()

		for i := 0; i < n; i++ {
			fd := int(events[i].Ident)
			s, ok := p.slots.get(fd)
			if !ok {
				continue
			}

			rearmMS := s.OnReady(s)
			if rearmMS < 0 {
				_ = p.Remove(fd)
				continue
			}
			if rearmMS > 0 {
				p.slots.rearm(fd, time.Duration(rearmMS)*time.Millisecond)
			} else {
				p.slots.rearm(fd, 0)
			}
			ev := unix.Kevent_t{Ident: uint64(fd), Filter: filterFor(s.Interest), Flags: unix.EV_ADD | unix.EV_ONESHOT}
			_, _ = unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil)
		}
	}
}

func (p *kqueuePoller) Stop() {
	p.once.Do(func() {
		close(p.stop)
		ev := unix.Kevent_t{Ident: 0, Filter: unix.EVFILT_TIMER, Flags: unix.EV_ADD | unix.EV_ONESHOT, Data: 1}
		_, _ = unix.Kevent(p.kq, []unix.Kevent_t{ev}, nil, nil)
	})
}

func (p *kqueuePoller) Close() error {
	p.muCls.Lock()
	defer p.muCls.Unlock()
	if p.closed {
		return ErrorAlreadyClosed.Error()
	}
	p.closed = true
	return unix.Close(p.kq)
}
