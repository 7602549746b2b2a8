package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_commands_accepted_total",
			Help: "Total number of cart commands that produced an event",
		},
		[]string{"event_type"},
	)

	commandsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_commands_rejected_total",
			Help: "Total number of cart commands rejected, by reason",
		},
		[]string{"reason"},
	)
)
