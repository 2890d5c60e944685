package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "warfront"

// Arena 对局服务的指标集合。每个实例持有自己的 Registry，测试之间互不干扰。
type Arena struct {
	reg *prometheus.Registry

	tickLatency     prometheus.Histogram
	intentsAccepted *prometheus.CounterVec
	intentsDropped  *prometheus.CounterVec
	liveSessions    prometheus.Gauge
	matchesEnded    *prometheus.CounterVec
	archiveFailures prometheus.Counter
}

func New() *Arena {
	a := &Arena{
		reg: prometheus.NewRegistry(),
		tickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent advancing one session by one tick.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}),
		intentsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_accepted_total",
			Help:      "Player intents applied to a world.",
		}, []string{"type"}),
		intentsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_dropped_total",
			Help:      "Player intents silently dropped, by reason.",
		}, []string{"type", "reason"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Sessions currently owned by the manager.",
		}),
		matchesEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_ended_total",
			Help:      "Matches that reached the ended state, by reason.",
		}, []string{"reason"}),
		archiveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_save_failures_total",
			Help:      "Failed attempts to persist a match record.",
		}),
	}
	a.reg.MustRegister(
		a.tickLatency,
		a.intentsAccepted,
		a.intentsDropped,
		a.liveSessions,
		a.matchesEnded,
		a.archiveFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return a
}

func (a *Arena) Registry() *prometheus.Registry { return a.reg }

// Handler 供 gin 挂载到 /metrics。
func (a *Arena) Handler() http.Handler {
	return promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{})
}

func (a *Arena) ObserveTick(d time.Duration) {
	if a == nil {
		return
	}
	a.tickLatency.Observe(d.Seconds())
}

func (a *Arena) IntentAccepted(typ string) {
	if a == nil {
		return
	}
	a.intentsAccepted.WithLabelValues(typ).Inc()
}

func (a *Arena) IntentDropped(typ, reason string) {
	if a == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	a.intentsDropped.WithLabelValues(typ, reason).Inc()
}

func (a *Arena) SetLiveSessions(n int) {
	if a == nil {
		return
	}
	a.liveSessions.Set(float64(n))
}

func (a *Arena) MatchEnded(reason string) {
	if a == nil {
		return
	}
	a.matchesEnded.WithLabelValues(reason).Inc()
}

func (a *Arena) ArchiveFailed() {
	if a == nil {
		return
	}
	a.archiveFailures.Inc()
}
