package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rendersTotal counts report runs by output format and run status.
	rendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlreports_renders_total",
			Help: "Total number of report renders by format and status",
		},
		[]string{"format", "status"},
	)

	// renderDuration tracks the time from definition load to finished output.
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlreports_render_duration_seconds",
			Help:    "Report render duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	// runlogErrorsTotal counts failed run result publications.
	runlogErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sqlreports_runlog_errors_total",
			Help: "Total number of run results that could not be published",
		},
	)
)
