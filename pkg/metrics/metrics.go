package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Command metrics
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whale_commands_total",
			Help: "Total number of docker CLI invocations by subcommand and status",
		},
		[]string{"subcommand", "status"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whale_command_duration_seconds",
			Help:    "docker CLI invocation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subcommand"},
	)

	// Proxy cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whale_cache_lookups_total",
			Help: "Total number of proxy record lookups by kind and result (hit or miss)",
		},
		[]string{"kind", "result"},
	)

	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whale_fetches_total",
			Help: "Total number of inspect fetches by kind and status",
		},
		[]string{"kind", "status"},
	)

	InvalidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whale_invalidations_total",
			Help: "Total number of cache invalidations by kind",
		},
		[]string{"kind"},
	)
)

// Label values shared by the counters above.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(CacheLookups)
	prometheus.MustRegister(FetchesTotal)
	prometheus.MustRegister(InvalidationsTotal)
}
