package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Monitor is the set of Prometheus collectors a Server updates as it
// serves connections, mirroring the instrumentation
// nabbar/golib/httpserver wires into its monitor integration. It is
// additive: nothing here affects wire behavior.
type Monitor struct {
	registry *prometheus.Registry

	ActiveConnections prometheus.Gauge
	RequestsTotal     prometheus.Counter
	BytesSent         prometheus.Counter
	ParserErrors      prometheus.Counter
	WebSocketUpgrades prometheus.Counter
}

// NewMonitor builds a Monitor with its own private registry, scoped
// under the given namespace (typically the server's Config.Name), so
// multiple Server instances in one process don't collide.
func NewMonitor(namespace string) *Monitor {
	reg := prometheus.NewRegistry()

	m := &Monitor{
		registry: reg,
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_connections", Help: "Currently open connections.",
		}),
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "requests_total", Help: "Total requests dispatched through the handler chain.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bytes_sent_total", Help: "Total response body bytes written to transports.",
		}),
		ParserErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "parser_errors_total", Help: "Requests rejected by the HTTP parser.",
		}),
		WebSocketUpgrades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "websocket_upgrades_total", Help: "Successful WebSocket handshake upgrades.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.RequestsTotal, m.BytesSent, m.ParserErrors, m.WebSocketUpgrades)
	return m
}

// Registry returns the private Prometheus registry backing m.
func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// Handler returns an http.Handler exposing m's metrics in the
// Prometheus exposition format, for a host program to mount under
// /metrics.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
