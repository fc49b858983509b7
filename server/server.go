package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/onion-http/onion/errs"
	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/internal/onlog"
	"github.com/onion-http/onion/internal/poller"
	"github.com/onion-http/onion/listenpoint"
	"github.com/onion-http/onion/parser"
	"github.com/onion-http/onion/request"
)

// Server assembles listen points, the HTTP parser, and a handler
// chain into a running service, the façade a host program drives.
type Server struct {
	ID  string
	cfg Config

	chain   handler.Handler
	parser  *parser.Parser
	monitor *Monitor
	log     *logrus.Entry

	mu           sync.Mutex
	listenPoints []listenpoint.ListenPoint
	running      bool
	stopCh       chan struct{}
	wg           sync.WaitGroup

	pl poller.Poller
}

// New builds a Server from cfg, serving chain. cfg is validated
// immediately.
func New(cfg Config, chain handler.Handler) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		ID:  uuid.NewString(),
		cfg: cfg,
		chain: chain,
		parser: parser.New(parser.Config{
			MaxPostSize: cfg.MaxPostSize,
			MaxFileSize: cfg.MaxFileSize,
		}),
		monitor: NewMonitor(cfg.Name),
		log:     onlog.For("server").WithField("server", cfg.Name),
	}
	return s, nil
}

// Monitor returns the Prometheus collectors this server updates.
func (s *Server) Monitor() *Monitor { return s.monitor }

// AddListenPoint registers an additional transport (e.g. a second
// HTTPS listen point alongside the primary HTTP one) to be bound on
// Start.
func (s *Server) AddListenPoint(lp listenpoint.ListenPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listenPoints = append(s.listenPoints, lp)
}

// defaultListenPoint builds the plain HTTP listen point described by
// cfg, used when the caller hasn't registered one explicitly.
func (s *Server) defaultListenPoint() listenpoint.ListenPoint {
	if s.cfg.TLS != nil {
		tlsCfg, err := s.cfg.TLS.Build()
		if err != nil {
			s.log.WithError(err).Error("failed to build TLS config, falling back to plain HTTP")
		} else {
			return listenpoint.NewHTTPS(s.cfg.Hostname, s.cfg.Port, s.cfg.TimeoutDuration(), tlsCfg)
		}
	}
	return listenpoint.NewHTTP(s.cfg.Hostname, s.cfg.Port, s.cfg.TimeoutDuration())
}

// Start binds every listen point and begins serving in the
// background. Use Wait to block until Stop is called.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errs.New(ErrorAlreadyRunning, "server already running", nil)
	}
	if len(s.listenPoints) == 0 {
		s.listenPoints = []listenpoint.ListenPoint{s.defaultListenPoint()}
	}
	s.stopCh = make(chan struct{})
	s.running = true
	lps := append([]listenpoint.ListenPoint(nil), s.listenPoints...)
	s.mu.Unlock()

	if s.cfg.Flags.Has(FlagPool) {
		pl, err := poller.New()
		if err != nil {
			return errs.New(ErrorPoller, "starting poller", err)
		}
		s.pl = pl
		for i := 0; i < s.cfg.WorkerCount(); i++ {
			s.wg.Add(1)
			go s.pollWorker()
		}
	}

	if !s.cfg.Flags.Has(FlagNoSigterm) {
		installSignalHandler(s)
	}

	for _, lp := range lps {
		if err := lp.Listen(); err != nil {
			s.Stop()
			return errs.New(ErrorListen, "binding listen point", err)
		}
		s.wg.Add(1)
		go s.acceptLoop(lp)
	}

	return nil
}

// Run starts the server and blocks until Stop is called (directly, or
// via SIGTERM/SIGINT when FlagNoSigterm is not set). This is the
// single-call entry point a cmd/ host program uses.
func (s *Server) Run() error {
	if err := s.Start(); err != nil {
		return err
	}
	s.Wait()
	return nil
}

// Wait blocks until every accept loop and worker has returned
// following a Stop.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Stop signals every accept loop and poller worker to exit and closes
// every listen point. Already-dispatched requests run to completion.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	lps := s.listenPoints
	stopCh := s.stopCh
	s.mu.Unlock()

	close(stopCh)
	for _, lp := range lps {
		_ = lp.Close()
	}
	if s.pl != nil {
		s.pl.Stop()
	}
}

func (s *Server) acceptLoop(lp listenpoint.ListenPoint) {
	defer s.wg.Done()
	for {
		req, err := lp.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.log.WithError(err).Warn("accept failed")
				continue
			}
		}
		if s.monitor != nil {
			s.monitor.ActiveConnections.Inc()
		}

		if s.cfg.Flags.Has(FlagPool) && req.Connection.Fd() >= 0 {
			s.registerPooled(req)
			continue
		}

		s.wg.Add(1)
		go s.serveBlocking(req)
	}
}

// serveBlocking runs the connection's full lifetime on its own
// goroutine, the default scheduling mode: Go's runtime already
// multiplexes goroutines over OS threads, so this is the idiomatic
// equivalent of the original library's single-threaded polling loop.
func (s *Server) serveBlocking(req *request.Request) {
	defer s.wg.Done()
	defer s.closeConn(req)
	for {
		if s.serveStep(req) == connDone {
			return
		}
	}
}

func (s *Server) closeConn(req *request.Request) {
	_ = req.Close()
	if s.monitor != nil {
		s.monitor.ActiveConnections.Dec()
	}
}

// registerPooled hands the connection to the shared poller, exercised
// when Config.Flags carries FlagPool: a fixed set of worker
// goroutines call Poll concurrently, and the kernel's one-shot
// readiness semantics guarantee a given connection is only ever
// dispatched to one of them at a time.
func (s *Server) registerPooled(req *request.Request) {
	fd := req.Connection.Fd()
	slot := &poller.Slot{
		Fd:       fd,
		UserData: req,
		Interest: poller.Read,
		Timeout:  s.cfg.TimeoutDuration(),
		OnShutdown: func(sl *poller.Slot) {
			s.closeConn(sl.UserData.(*request.Request))
		},
	}
	slot.OnReady = func(sl *poller.Slot) int {
		r := sl.UserData.(*request.Request)
		if s.serveStep(r) == connDone {
			return -1
		}
		return 0
	}
	if err := s.pl.Add(slot); err != nil {
		s.log.WithError(err).Warn("failed to register connection with poller")
		s.closeConn(req)
	}
}

func (s *Server) pollWorker() {
	defer s.wg.Done()
	if err := s.pl.Poll(); err != nil {
		s.log.WithError(err).Warn("poller worker exited with error")
	}
}
