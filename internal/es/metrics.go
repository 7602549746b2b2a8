package es

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_store_appends_total",
		Help: "Total number of successful stream appends",
	})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_store_conflicts_total",
		Help: "Total number of appends rejected with a concurrency conflict",
	})
)
