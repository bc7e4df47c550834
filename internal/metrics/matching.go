package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "matchd"

// Ranking and matching Prometheus metrics.
var (
	RankingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Candidate ranking duration in seconds, store reads included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"sort"},
	)

	RankingPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_pool_size",
			Help:      "Eligible candidates per ranking request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	RankingScoringFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranking_scoring_failures_total",
			Help:      "Candidates skipped because scoring failed",
		},
	)

	MagicMatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "magic_match_total",
			Help:      "Magic match invocations by outcome",
		},
		[]string{"outcome"}, // ai / fallback / rate_limited / no_candidates
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_provider_requests_total",
			Help:      "Generative model requests by status",
		},
		[]string{"model", "status"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_provider_request_duration_seconds",
			Help:      "Generative model request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"model"},
	)

	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Recorded interest actions by choice",
		},
		[]string{"choice"},
	)

	MutualMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutual_matches_total",
			Help:      "Match records created",
		},
	)

	ReasonCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reason_cache_total",
			Help:      "Reason cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var matchingRegistrations registrations

// RegisterMatchingMetrics registers the matching metrics on reg
// (prometheus.DefaultRegisterer when nil). Safe for concurrent use; each
// registry receives the collectors once.
func RegisterMatchingMetrics(reg prometheus.Registerer) {
	matchingRegistrations.register(reg,
		RankingDuration,
		RankingPoolSize,
		RankingScoringFailuresTotal,
		MagicMatchTotal,
		ProviderRequestsTotal,
		ProviderRequestDuration,
		ActionsTotal,
		MutualMatchesTotal,
		ReasonCacheTotal,
	)
}
