// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the graph gateway.
//
// Metrics cover the dual-backend routing behavior: which store served each
// operation, how often the primary failed over to the local store, and how
// long each store operation took.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "aleutiangraph"

const gatewaySubsystem = "gateway"

// GatewayMetrics holds all Prometheus metrics for gateway operations.
type GatewayMetrics struct {
	// RequestsTotal counts gateway operations by operation and resolved source.
	// Labels: operation (fetch, write, status, delete_node, delete_edge),
	// source (primary, fallback, error)
	RequestsTotal *prometheus.CounterVec

	// FallbacksTotal counts primary-store failures that triggered fallback.
	// Labels: operation
	FallbacksTotal *prometheus.CounterVec

	// SanitizedErrorsTotal counts sanitized errors by taxonomy kind.
	// Labels: kind
	SanitizedErrorsTotal *prometheus.CounterVec

	// StoreOpDurationSeconds measures per-store operation latency.
	// Labels: store (databricks, sqlite), operation
	StoreOpDurationSeconds *prometheus.HistogramVec
}

// NewGatewayMetrics creates and registers the gateway metrics on reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid global collisions.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)
	return &GatewayMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "requests_total",
			Help:      "Gateway operations by operation and resolved source.",
		}, []string{"operation", "source"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "fallbacks_total",
			Help:      "Primary store failures that triggered local fallback.",
		}, []string{"operation"}),
		SanitizedErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "sanitized_errors_total",
			Help:      "Errors returned to clients, by taxonomy kind.",
		}, []string{"kind"}),
		StoreOpDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: gatewaySubsystem,
			Name:      "store_op_duration_seconds",
			Help:      "Store operation latency by store and operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"store", "operation"}),
	}
}
