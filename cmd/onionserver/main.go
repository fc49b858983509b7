// Command onionserver is a worked example host program: it loads a
// server.Config from a YAML file (or ONION_* environment variables
// when no file is given), registers a small demo handler chain, and
// runs until SIGTERM/SIGINT.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/onion-http/onion/handler"
	"github.com/onion-http/onion/request"
	"github.com/onion-http/onion/response"
	"github.com/onion-http/onion/router"
	"github.com/onion-http/onion/server"
	"github.com/onion-http/onion/session"
	"github.com/onion-http/onion/websocket"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML/JSON/TOML server config file (ONION_* env vars are used if omitted)")
	metricsAddr := flag.String("metrics", "", "address to serve Prometheus metrics on, e.g. :9100 (disabled if empty)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "onionserver: loading configuration:", err)
		os.Exit(1)
	}

	chain := buildDemoChain()

	srv, err := server.New(cfg, chain)
	if err != nil {
		fmt.Fprintln(os.Stderr, "onionserver: building server:", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", srv.Monitor().Handler())
			_ = http.ListenAndServe(*metricsAddr, mux)
		}()
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "onionserver: running server:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (server.Config, error) {
	if path != "" {
		return server.LoadConfig(path)
	}
	return server.LoadConfigEnv()
}

// buildDemoChain wires together the session middleware, the URL
// dispatcher, a static-text handler, a session-counter handler, and
// an echo WebSocket handler, exercising every module a registered
// handler chain would realistically combine.
func buildDemoChain() handler.Handler {
	rt := router.New()
	rt.AddStatic("/", "onion is running", 200)
	rt.AddFunc("/visits", visitCounterHandler)
	rt.AddFunc("/echo", echoWebSocketHandler)

	sessioned := session.Wrap(session.NewMemoryStore(), rt)

	return handler.NewChain().Add(sessioned)
}

func visitCounterHandler(req *request.Request, res *response.Response) handler.Status {
	sess := req.Session()
	visits := 0
	if raw, ok := sess.Get("visits"); ok {
		fmt.Sscanf(raw, "%d", &visits)
	}
	visits++
	sess.Set("visits", fmt.Sprintf("%d", visits))

	res.SetHeader("Content-Type", "text/plain")
	_, _ = res.Printf("visit number %d", visits)
	return handler.Processed
}

func echoWebSocketHandler(req *request.Request, res *response.Response) handler.Status {
	ws, err := websocket.Upgrade(req, res)
	if err != nil {
		return handler.InternalError
	}
	if ws == nil {
		return handler.NotProcessed
	}

	ws.SetCallback(func(w *websocket.WebSocket, dataLeft int) handler.Status {
		if dataLeft < 0 {
			return handler.CloseConnection
		}
		buf := make([]byte, dataLeft)
		n, err := w.Read(buf)
		if err != nil {
			return handler.CloseConnection
		}
		w.SetOpcode(websocket.OpText)
		if _, err := w.Write(buf[:n]); err != nil {
			return handler.CloseConnection
		}
		return handler.Processed
	})
	return handler.WebSocket
}
