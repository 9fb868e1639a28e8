/*
DESCRIPTION
  metrics.go defines the Prometheus metrics recorded for each frame.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// framesProcessed counts frames subtracted by algorithm.
	framesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgs_frames_processed_total",
		Help: "Total frames subtracted by algorithm",
	}, []string{"algorithm"})

	// foregroundFraction is the fraction of foreground pixels in the low
	// mask of the last frame.
	foregroundFraction = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bgs_foreground_fraction",
		Help: "Foreground fraction of the low mask of the last frame",
	}, []string{"algorithm"})

	// subtractDuration tracks Subtract latency.
	subtractDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bgs_subtract_duration_seconds",
		Help:    "Subtract duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	}, []string{"algorithm"})
)
