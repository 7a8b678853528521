// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/observability"
)

// Source identifies which store ultimately served a request.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceError    Source = "error"
)

// Provenance describes which store served a request and any sanitized
// error met along the way. It is attached to every gateway response.
type Provenance struct {
	Source            Source
	DatabricksEnabled bool
	DatabricksError   string // sanitized; empty when the primary succeeded or was skipped
	Timestamp         time.Time
	Duration          time.Duration
}

// RemoteStore is the primary-store surface the gateway routes through.
// DatabricksStore implements it; tests substitute fakes.
type RemoteStore interface {
	Enabled() bool
	FetchGraph(ctx context.Context, table string) (graphmodel.GraphView, error)
	WriteGraph(ctx context.Context, table string, nodes []graphmodel.Node, edges []graphmodel.Edge) (int, error)
	DeleteNode(ctx context.Context, table, id string) (bool, error)
	DeleteEdge(ctx context.Context, table string, edge graphmodel.Edge) (bool, error)
}

var _ RemoteStore = (*DatabricksStore)(nil)

// RemoteFactory builds a request-scoped remote store bound to the
// forwarded access token.
type RemoteFactory func(token string) RemoteStore

// Gateway routes each read/write to the primary store with automatic
// fallback to the local store. It owns the local store handle explicitly;
// there is no module-level singleton.
type Gateway struct {
	local   *LocalStore
	remote  RemoteFactory
	cfg     DatabricksConfig
	metrics *observability.GatewayMetrics
}

// NewGateway wires the production remote factory.
func NewGateway(local *LocalStore, cfg DatabricksConfig, metrics *observability.GatewayMetrics) *Gateway {
	g := &Gateway{local: local, cfg: cfg, metrics: metrics}
	g.remote = func(token string) RemoteStore {
		return NewDatabricksStore(cfg, token)
	}
	return g
}

// NewGatewayWithRemote substitutes a custom remote factory. Used by tests.
func NewGatewayWithRemote(local *LocalStore, cfg DatabricksConfig, metrics *observability.GatewayMetrics, factory RemoteFactory) *Gateway {
	return &Gateway{local: local, cfg: cfg, metrics: metrics, remote: factory}
}

// Config exposes the warehouse config for health reporting.
func (g *Gateway) Config() DatabricksConfig {
	return g.cfg
}

// Local exposes the local store for health reporting.
func (g *Gateway) Local() *LocalStore {
	return g.local
}

// WriteResult is the outcome of a write routed through the gateway.
type WriteResult struct {
	Target       string // "databricks" or "local"
	JobID        string
	WrittenNodes int
	WrittenEdges int
}

// DeleteResult is the outcome of a delete. Primary deletion is
// best-effort; the local store is always updated so it never diverges
// further behind.
type DeleteResult struct {
	Target  string // "databricks+local" or "local"
	Deleted bool
}

// HealthInfo summarizes both backends for the health endpoint.
type HealthInfo struct {
	NodeCount  int64
	EdgeCount  int64
	Configured bool
	Host       string
	Table      string
}

// FetchGraph reads the merged graph: primary first, local on failure or
// when the primary is unreachable in principle (not configured, no token).
// The returned error is non-nil only when both stores failed.
func (g *Gateway) FetchGraph(ctx context.Context, token, table string) (view graphmodel.GraphView, prov Provenance, err error) {
	remote := g.remote(token)
	prov = Provenance{
		DatabricksEnabled: remote.Enabled(),
		Timestamp:         time.Now(),
	}
	defer func() { prov.Duration = time.Since(prov.Timestamp) }()

	if remote.Enabled() {
		start := time.Now()
		remoteView, rerr := remote.FetchGraph(ctx, table)
		g.metrics.StoreOpDurationSeconds.WithLabelValues("databricks", "fetch").Observe(time.Since(start).Seconds())
		if rerr == nil {
			prov.Source = SourcePrimary
			g.metrics.RequestsTotal.WithLabelValues("fetch", string(SourcePrimary)).Inc()
			return remoteView, prov, nil
		}
		prov.DatabricksError = g.sanitizeAndCount(rerr)
		g.metrics.FallbacksTotal.WithLabelValues("fetch").Inc()
		slog.Error("primary fetch failed, falling back to local store", "error", rerr)
	}

	start := time.Now()
	view, err = g.local.FetchGraph(ctx)
	g.metrics.StoreOpDurationSeconds.WithLabelValues("sqlite", "fetch").Observe(time.Since(start).Seconds())
	if err != nil {
		prov.Source = SourceError
		// Keep the primary's sanitized error when both stores failed; the
		// local failure travels as the returned error.
		if prov.DatabricksError == "" {
			prov.DatabricksError = g.sanitizeAndCount(err)
		}
		g.metrics.RequestsTotal.WithLabelValues("fetch", string(SourceError)).Inc()
		slog.Error("local fetch failed", "error", err)
		return graphmodel.GraphView{}, prov, err
	}
	prov.Source = SourceFallback
	g.metrics.RequestsTotal.WithLabelValues("fetch", string(SourceFallback)).Inc()
	return view, prov, nil
}

// WriteGraph persists a batch. On the primary path each edge becomes one
// independent row insert; any primary error falls back to writing the
// entire original batch to the local store in a single transaction.
func (g *Gateway) WriteGraph(ctx context.Context, token, table string, nodes []graphmodel.Node, edges []graphmodel.Edge) (result WriteResult, prov Provenance, err error) {
	remote := g.remote(token)
	prov = Provenance{
		DatabricksEnabled: remote.Enabled(),
		Timestamp:         time.Now(),
	}
	defer func() { prov.Duration = time.Since(prov.Timestamp) }()

	result = WriteResult{JobID: uuid.NewString()}

	if remote.Enabled() {
		start := time.Now()
		written, rerr := remote.WriteGraph(ctx, table, nodes, edges)
		g.metrics.StoreOpDurationSeconds.WithLabelValues("databricks", "write").Observe(time.Since(start).Seconds())
		if rerr == nil {
			prov.Source = SourcePrimary
			result.Target = "databricks"
			result.WrittenNodes = len(nodes)
			result.WrittenEdges = written
			g.metrics.RequestsTotal.WithLabelValues("write", string(SourcePrimary)).Inc()
			return result, prov, nil
		}
		prov.DatabricksError = g.sanitizeAndCount(rerr)
		g.metrics.FallbacksTotal.WithLabelValues("write").Inc()
		slog.Error("primary write failed, falling back to local store",
			"error", rerr, "nodes", len(nodes), "edges", len(edges))
	}

	start := time.Now()
	err = g.local.WriteGraph(ctx, nodes, edges)
	g.metrics.StoreOpDurationSeconds.WithLabelValues("sqlite", "write").Observe(time.Since(start).Seconds())
	if err != nil {
		prov.Source = SourceError
		if prov.DatabricksError == "" {
			prov.DatabricksError = g.sanitizeAndCount(err)
		}
		g.metrics.RequestsTotal.WithLabelValues("write", string(SourceError)).Inc()
		slog.Error("local write failed", "error", err)
		return result, prov, err
	}
	prov.Source = SourceFallback
	result.Target = "local"
	result.WrittenNodes = len(nodes)
	result.WrittenEdges = len(edges)
	g.metrics.RequestsTotal.WithLabelValues("write", string(SourceFallback)).Inc()
	return result, prov, nil
}

// UpdateStatus is a local-store-only operation: status is not part of the
// warehouse schema and is never attempted against the primary.
func (g *Gateway) UpdateStatus(ctx context.Context, nodeIDs, edgeIDs []string, status graphmodel.Status) (int64, int64, error) {
	start := time.Now()
	nodes, edges, err := g.local.UpdateStatus(ctx, nodeIDs, edgeIDs, status)
	g.metrics.StoreOpDurationSeconds.WithLabelValues("sqlite", "status").Observe(time.Since(start).Seconds())
	if err != nil {
		g.metrics.RequestsTotal.WithLabelValues("status", string(SourceError)).Inc()
		return 0, 0, err
	}
	g.metrics.RequestsTotal.WithLabelValues("status", string(SourceFallback)).Inc()
	return nodes, edges, nil
}

// DeleteNode removes a node from the primary (best-effort) and
// unconditionally from the local store.
func (g *Gateway) DeleteNode(ctx context.Context, token, table, id string) (DeleteResult, error) {
	remote := g.remote(token)
	result := DeleteResult{Target: "local"}

	if remote.Enabled() {
		start := time.Now()
		deleted, err := remote.DeleteNode(ctx, table, id)
		g.metrics.StoreOpDurationSeconds.WithLabelValues("databricks", "delete_node").Observe(time.Since(start).Seconds())
		if err != nil {
			g.sanitizeAndCount(err)
			slog.Warn("primary node delete failed, local delete proceeds", "node_id", id, "error", err)
		} else {
			result.Target = "databricks+local"
			result.Deleted = deleted
		}
	}

	start := time.Now()
	deleted, err := g.local.DeleteNode(ctx, id)
	g.metrics.StoreOpDurationSeconds.WithLabelValues("sqlite", "delete_node").Observe(time.Since(start).Seconds())
	if err != nil {
		g.metrics.RequestsTotal.WithLabelValues("delete_node", string(SourceError)).Inc()
		return result, err
	}
	result.Deleted = result.Deleted || deleted
	g.metrics.RequestsTotal.WithLabelValues("delete_node", sourceLabel(result.Target)).Inc()
	return result, nil
}

// DeleteEdge removes an edge. The primary has no synthetic edge id, so
// the local row supplies the (source, target, relationship type) triple
// used to match warehouse rows. If the edge is unknown locally, only the
// local delete (a no-op) runs.
func (g *Gateway) DeleteEdge(ctx context.Context, token, table, id string) (DeleteResult, error) {
	remote := g.remote(token)
	result := DeleteResult{Target: "local"}

	if remote.Enabled() {
		edge, found, err := g.local.GetEdge(ctx, id)
		if err != nil {
			return result, err
		}
		if found {
			start := time.Now()
			deleted, derr := remote.DeleteEdge(ctx, table, edge)
			g.metrics.StoreOpDurationSeconds.WithLabelValues("databricks", "delete_edge").Observe(time.Since(start).Seconds())
			if derr != nil {
				g.sanitizeAndCount(derr)
				slog.Warn("primary edge delete failed, local delete proceeds", "edge_id", id, "error", derr)
			} else {
				result.Target = "databricks+local"
				result.Deleted = deleted
			}
		}
	}

	start := time.Now()
	deleted, err := g.local.DeleteEdge(ctx, id)
	g.metrics.StoreOpDurationSeconds.WithLabelValues("sqlite", "delete_edge").Observe(time.Since(start).Seconds())
	if err != nil {
		g.metrics.RequestsTotal.WithLabelValues("delete_edge", string(SourceError)).Inc()
		return result, err
	}
	result.Deleted = result.Deleted || deleted
	g.metrics.RequestsTotal.WithLabelValues("delete_edge", sourceLabel(result.Target)).Inc()
	return result, nil
}

// Health reports local store sizes and warehouse configuration.
func (g *Gateway) Health(ctx context.Context) (HealthInfo, error) {
	nodes, edges, err := g.local.Counts(ctx)
	if err != nil {
		return HealthInfo{}, err
	}
	return HealthInfo{
		NodeCount:  nodes,
		EdgeCount:  edges,
		Configured: g.cfg.Configured(),
		Host:       g.cfg.Hostname,
		Table:      g.cfg.Table,
	}, nil
}

// sanitizeAndCount maps an error to its client-safe form and records the
// taxonomy kind. The raw error stays in server logs only.
func (g *Gateway) sanitizeAndCount(err error) string {
	se := Classify(err)
	g.metrics.SanitizedErrorsTotal.WithLabelValues(string(se.Kind)).Inc()
	return Sanitize(err)
}

func sourceLabel(target string) string {
	if target == "databricks+local" {
		return string(SourcePrimary)
	}
	return string(SourceFallback)
}
