// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

// Package metrics provides Prometheus instrumentation for the gallery client:
// upload/publish throughput and latency, and token renewal counts. Collectors
// are registered with the default registry via promauto; hosting applications
// expose them however they expose the rest of their metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UploadsTotal counts partial artifact uploads by artifact kind and outcome.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartoshare_uploads_total",
			Help: "Total number of partial artifact uploads",
		},
		[]string{"artifact", "status"}, // artifact: "map", "blank_map", "thumbnail"; status: "success", "failure"
	)

	// UploadDuration observes partial upload latency in seconds.
	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cartoshare_upload_duration_seconds",
			Help:    "Duration of partial artifact uploads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"artifact"},
	)

	// PublishesTotal counts publish calls by outcome.
	PublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartoshare_publishes_total",
			Help: "Total number of map publish calls",
		},
		[]string{"status"},
	)

	// PublishDuration observes end-to-end publish latency in seconds,
	// including thumbnail derivation and all partial uploads.
	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cartoshare_publish_duration_seconds",
			Help:    "End-to-end duration of publish calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// TokenRenewalsTotal counts bearer token exchanges by outcome.
	TokenRenewalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cartoshare_token_renewals_total",
			Help: "Total number of bearer token exchanges",
		},
		[]string{"status"},
	)
)

// StatusLabel converts a success flag into the metric status label.
func StatusLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// ObserveUpload records one partial upload attempt.
func ObserveUpload(artifact string, success bool, duration time.Duration) {
	UploadsTotal.WithLabelValues(artifact, StatusLabel(success)).Inc()
	UploadDuration.WithLabelValues(artifact).Observe(duration.Seconds())
}

// ObservePublish records one end-to-end publish call.
func ObservePublish(success bool, duration time.Duration) {
	PublishesTotal.WithLabelValues(StatusLabel(success)).Inc()
	PublishDuration.Observe(duration.Seconds())
}
