package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "notifications_emitted_total",
		Help:      "Notifications written to the notification store.",
	}, []string{"type"})

	NotificationsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "notifications_dropped_total",
		Help:      "Notifications that failed to write and were discarded.",
	}, []string{"type"})

	RelationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "relation_toggles_total",
		Help:      "Follow, block and like toggles by resulting state.",
	}, []string{"kind", "state"})

	LikeCounterDrift = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "like_counter_drift_total",
		Help:      "Posts whose like counter was repaired by the audit.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "circle",
		Name:      "events_dropped_total",
		Help:      "Social events that could not be handed to the broker.",
	})
)
