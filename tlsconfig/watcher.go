package tlsconfig

import (
	"crypto/tls"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/internal/onlog"
)

// Watcher rebuilds a *tls.Config whenever a file backing one of its
// certificates changes on disk, so a listen point can keep serving
// through a certificate rotation without a restart.
type Watcher struct {
	cfg     Config
	current atomic.Pointer[tls.Config]
	fsw     *fsnotify.Watcher
	log     *logrus.Entry
	done    chan struct{}
}

// NewWatcher builds the initial TLS config and, if cfg.WatchForChanges
// is set, starts watching every PEM file it was built from for writes.
func NewWatcher(cfg Config) (*Watcher, error) {
	built, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	w := &Watcher{cfg: cfg, log: onlog.For("tlsconfig"), done: make(chan struct{})}
	w.current.Store(built)

	if !cfg.WatchForChanges {
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.New(ErrorWatch, "starting file watcher", err)
	}
	for _, pair := range cfg.Certs {
		for _, path := range []string{pair.CertFile, pair.KeyFile, pair.PKCS12File} {
			if path == "" {
				continue
			}
			if err := fsw.Add(path); err != nil {
				fsw.Close()
				return nil, errs.New(ErrorWatch, "watching certificate file "+path, err)
			}
		}
	}
	w.fsw = fsw

	go w.loop()
	return w, nil
}

// Config returns the currently active *tls.Config. Safe for
// concurrent use by listen points serving in parallel.
func (w *Watcher) Config() *tls.Config {
	return w.current.Load()
}

// GetConfigForClient satisfies tls.Config.GetConfigForClient, always
// handing out the most recently loaded certificate.
func (w *Watcher) GetConfigForClient(*tls.ClientHelloInfo) (*tls.Config, error) {
	return w.current.Load(), nil
}

// Close stops the watcher goroutine. A Watcher built without
// WatchForChanges is a no-op to close.
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("tls certificate watcher error")
		}
	}
}

func (w *Watcher) reload() {
	built, err := w.cfg.Build()
	if err != nil {
		w.log.WithError(err).Warn("failed to reload rotated certificate, keeping previous one")
		return
	}
	w.current.Store(built)
	w.log.Info("reloaded TLS certificate from disk")
}
