// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollabRequestsCreated counts created collaboration requests.
	CollabRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabdir_requests_created_total",
		Help: "Collaboration requests created.",
	})

	// CollabDecisions counts status decisions, labeled by outcome.
	CollabDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collabdir_request_decisions_total",
		Help: "Collaboration request decisions by status.",
	}, []string{"status"})

	// MatchQueries counts match computations served.
	MatchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collabdir_match_queries_total",
		Help: "Match queries served.",
	})
)
