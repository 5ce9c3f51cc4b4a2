package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route template and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "code"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache reads by cache name and result (hit|miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"cache", "result"})

	// LikeToggles counts like toggles by entity kind.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_like_toggles_total",
		Help: "Total number of like toggles",
	}, []string{"entity"})

	// Shares counts share increments.
	Shares = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_shares_total",
		Help: "Total number of post shares",
	})
)
