//go:build linux

package poller

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// epollPoller is the default Poller backend on Linux: a single epoll
// instance in one-shot mode, one fd per slot. Several goroutines may
// call Poll concurrently; EPOLLONESHOT guarantees the kernel only
// wakes one of them for a given fd until it is re-armed.
type epollPoller struct {
	epfd   int
	slots  *slotTable
	wakeR  int
	wakeW  int
	stop   chan struct{}
	once   sync.Once
	closed bool
	muCls  sync.Mutex
}

// New returns the default Poller for this platform (epoll on Linux).
func New() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, ErrorAddFailed.Error(err)
	}

	// A self-pipe lets Stop() wake every blocked epoll_wait call
	// without relying on signal delivery to a specific thread.
	fds := make([]int, 2)
	if err := unix.Pipe2(fds, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		_ = unix.Close(epfd)
		return nil, ErrorAddFailed.Error(err)
	}

	p := &epollPoller{
		epfd:  epfd,
		slots: newSlotTable(),
		wakeR: fds[0],
		wakeW: fds[1],
		stop:  make(chan struct{}),
	}

	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, p.wakeR, &unix.EpollEvent{
		Events: unix.EPOLLIN,
		Fd:     int32(p.wakeR),
	}); err != nil {
		_ = unix.Close(epfd)
		return nil, ErrorAddFailed.Error(err)
	}

	return p, nil
}

func (p *epollPoller) Add(s *Slot) error {
	ev := &unix.EpollEvent{Fd: int32(s.Fd), Events: unix.EPOLLONESHOT | eventsFor(s.Interest)}
	op := unix.EPOLL_CTL_ADD
	if _, ok := p.slots.get(s.Fd); ok {
		op = unix.EPOLL_CTL_MOD
	}
	p.slots.put(s)
	if err := unix.EpollCtl(p.epfd, op, s.Fd, ev); err != nil {
		p.slots.drop(s.Fd)
		return ErrorAddFailed.Error(err)
	}
	return nil
}

func (p *epollPoller) Remove(fd int) error {
	s, ok := p.slots.drop(fd)
	if !ok {
		return nil
	}
	_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if s.OnShutdown != nil {
		s.OnShutdown(s)
	}
	return nil
}

func (p *epollPoller) Get(fd int) (*Slot, bool) {
	return p.slots.get(fd)
}

func eventsFor(i Interest) uint32 {
	switch i {
	case Write:
		return unix.EPOLLOUT
	case All:
		return unix.EPOLLIN | unix.EPOLLOUT
	default:
		return unix.EPOLLIN
	}
}

func (p *epollPoller) Poll() error {
	events := make([]unix.EpollEvent, 128)
	for {
		select {
		case <-p.stop:
			return nil
		default:
		}

		timeout := -1
		if d, ok := p.slots.nextDeadline(); ok {
			ms := int(d / time.Millisecond)
			if ms < 1 {
				ms = 1
			}
			timeout = ms
		}

		n, err := unix.EpollWait(p.epfd, events, timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return ErrorWaitFailed.Error(err)
		}

		p.slots.fireExpired()

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == p.wakeR {
				var buf [64]byte
				_, _ = unix.Read(p.wakeR, buf[:])
				continue
			}

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
			_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{
				Fd:     int32(fd),
				Events: unix.EPOLLONESHOT | eventsFor(s.Interest),
			})
		}
	}
}

func (p *epollPoller) Stop() {
	p.once.Do(func() {
		close(p.stop)
		var buf [1]byte
		_, _ = unix.Write(p.wakeW, buf[:])
	})
}

func (p *epollPoller) Close() error {
	p.muCls.Lock()
	defer p.muCls.Unlock()
	if p.closed {
		return ErrorAlreadyClosed.Error()
	}
	p.closed = true
	_ = unix.Close(p.wakeR)
	_ = unix.Close(p.wakeW)
	return unix.Close(p.epfd)
}
