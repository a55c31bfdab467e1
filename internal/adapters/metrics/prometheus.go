package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"access-console/internal/domain"
)

// Metrics counts access model commands by outcome and serves them for
// scraping.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler
	commands *prometheus.CounterVec
	sessions prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_console_commands_total",
		Help: "Access model commands by name and outcome.",
	}, []string{"command", "outcome"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "access_console_open_sessions",
		Help: "Console sessions currently open.",
	})
	registry.MustRegister(commands, sessions)
	return &Metrics{
		registry: registry,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		commands: commands,
		sessions: sessions,
	}
}

// Record implements ports.CommandRecorder. The outcome label is "ok" or the
// failure kind.
func (m *Metrics) Record(command string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

func (m *Metrics) SessionOpened() { m.sessions.Inc() }

func (m *Metrics) SessionClosed() { m.sessions.Dec() }

func (m *Metrics) Handler() http.Handler { return m.handler }
