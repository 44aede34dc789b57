// Package metrics holds the prometheus collectors shared by the session,
// room and http packages.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_sessions_issued_total",
		Help: "Sessions created for requests without a session cookie",
	})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_sessions_expired_total",
		Help: "Requests that presented a session cookie with no matching session",
	})

	SessionsReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_sessions_reclaimed_total",
		Help: "Inactive sessions deleted by the reclaimer",
	})

	ReclaimSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parlor_reclaim_sweeps_total",
		Help: "Reclaimer sweeps by status",
	}, []string{"status"})

	ReclaimDurationMS = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parlor_reclaim_duration_ms",
		Help:    "Time spent in one reclaimer sweep",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	RoomAuthorizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parlor_room_authorizations_total",
		Help: "Room access checks by result",
	}, []string{"result"})

	UpdatePolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parlor_update_polls_total",
		Help: "Update polls by whether the client had to reset its cache",
	}, []string{"reset"})

	MessagesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_messages_delivered_total",
		Help: "Messages returned to clients by update polls",
	})

	MessagesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_messages_posted_total",
		Help: "Messages stored",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
