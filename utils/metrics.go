package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codercomm_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codercomm_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ReactionToggles counts reaction submissions by target type and outcome.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codercomm_reaction_toggles_total",
		Help: "Reaction submissions by target type and outcome (created, removed, switched)",
	}, []string{"target_type", "outcome"})

	// FriendTransitions counts relationship lifecycle events.
	FriendTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codercomm_friend_transitions_total",
		Help: "Friend relationship transitions (requested, accepted, declined, cancelled, removed)",
	}, []string{"transition"})

	// CounterRefreshMisses counts counter refreshes whose parent row was gone.
	CounterRefreshMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codercomm_counter_refresh_misses_total",
		Help: "Counter refreshes that found no parent document",
	}, []string{"counter"})

	// RedisErrors counts Redis errors by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codercomm_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})
)
