package server

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	sigOnce     sync.Once
	sigMu       sync.Mutex
	sigServers  []*Server
	sigReceived bool
)

// installSignalHandler registers s to be stopped on the first
// SIGTERM/SIGINT this process receives. The underlying
// signal.Notify is installed exactly once per process, matching the
// original library's "installed once, first server created" handle;
// a second signal aborts the process immediately instead of waiting
// on a graceful shutdown that isn't progressing.
func installSignalHandler(s *Server) {
	sigMu.Lock()
	sigServers = append(sigServers, s)
	sigMu.Unlock()

	sigOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		go func() {
			for range ch {
				sigMu.Lock()
				already := sigReceived
				sigReceived = true
				servers := append([]*Server(nil), sigServers...)
				sigMu.Unlock()

				if already {
					os.Exit(1)
				}
				for _, srv := range servers {
					srv.Stop()
				}
			}
		}()
	})
}
