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
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	dbsql "github.com/databricks/databricks-sql-go"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/pkg/validation"
)

// DatabricksConfig describes the warehouse endpoint. Token is an optional
// server-side default; a request-scoped forwarded token takes precedence.
type DatabricksConfig struct {
	Hostname string
	HTTPPath string
	Table    string
	Token    string
}

// Configured reports whether the endpoint itself is known. A configured
// endpoint without any token is still unusable; see Enabled.
func (c DatabricksConfig) Configured() bool {
	return c.Hostname != "" && c.HTTPPath != ""
}

// DatabricksStore adapts the normalized node/edge model to the warehouse's
// denormalized edge table: one row per edge carrying both endpoint
// snapshots. It is request-scoped (config + effective token) and opens a
// fresh connection for every operation; there is no pool.
type DatabricksStore struct {
	cfg   DatabricksConfig
	token string
}

// NewDatabricksStore binds the config to the access token for one request.
// An empty token falls back to the server-side default token, if any.
func NewDatabricksStore(cfg DatabricksConfig, token string) *DatabricksStore {
	if token == "" {
		token = cfg.Token
	}
	return &DatabricksStore{cfg: cfg, token: token}
}

// Enabled reports whether this request can attempt the primary store at
// all: endpoint configured and some access token present.
func (s *DatabricksStore) Enabled() bool {
	return s.cfg.Configured() && s.token != ""
}

// open dials a fresh warehouse connection. The caller must close the
// returned handle; every operation pays full connection-setup latency by
// design (no shared connection object between requests).
func (s *DatabricksStore) open() (*sql.DB, error) {
	if !s.Enabled() {
		return nil, ErrRemoteNotConfigured
	}
	connector, err := dbsql.NewConnector(
		dbsql.WithServerHostname(s.cfg.Hostname),
		dbsql.WithHTTPPath(s.cfg.HTTPPath),
		dbsql.WithAccessToken(s.token),
		dbsql.WithPort(443),
	)
	if err != nil {
		return nil, fmt.Errorf("databricks connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// resolveTable picks the per-request table override or the configured
// default, and validates it before it is interpolated into any SQL text.
func (s *DatabricksStore) resolveTable(table string) (string, error) {
	if table == "" {
		table = s.cfg.Table
	}
	if err := validation.ValidateTableName(table); err != nil {
		return "", err
	}
	return table, nil
}

// edgeTableColumns is the denormalized warehouse schema: both endpoint
// snapshots ride on every edge row. There is no synthetic edge id and no
// status column.
const edgeTableColumns = "source_id, source_label, source_key, source_properties, " +
	"target_id, target_label, target_key, target_properties, " +
	"relationship_type, relationship_properties"

// edgeRow is one denormalized warehouse row.
type edgeRow struct {
	SourceID, SourceLabel, SourceKey, SourceProps string
	TargetID, TargetLabel, TargetKey, TargetProps string
	RelationshipType, RelationshipProps           string
}

// FetchGraph reads the whole edge table and rebuilds the normalized model.
func (s *DatabricksStore) FetchGraph(ctx context.Context, table string) (graphmodel.GraphView, error) {
	var view graphmodel.GraphView

	tbl, err := s.resolveTable(table)
	if err != nil {
		return view, err
	}
	db, err := s.open()
	if err != nil {
		return view, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s", edgeTableColumns, tbl))
	if err != nil {
		return view, fmt.Errorf("query %s: %w", tbl, err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var r edgeRow
		var srcProps, dstProps, relProps sql.NullString
		if err := rows.Scan(
			&r.SourceID, &r.SourceLabel, &r.SourceKey, &srcProps,
			&r.TargetID, &r.TargetLabel, &r.TargetKey, &dstProps,
			&r.RelationshipType, &relProps,
		); err != nil {
			return view, fmt.Errorf("scan edge row: %w", err)
		}
		r.SourceProps = srcProps.String
		r.TargetProps = dstProps.String
		r.RelationshipProps = relProps.String
		accumulateRow(&view, seen, r)
	}
	if err := rows.Err(); err != nil {
		return view, fmt.Errorf("read %s: %w", tbl, err)
	}

	return view, nil
}

// accumulateRow folds one denormalized row into the view: up to two node
// records (first occurrence wins per id; later rows never overwrite) and
// exactly one edge record. Each side's node type comes from the opposite
// side's key column, mirroring how the writer lays the row out.
func accumulateRow(view *graphmodel.GraphView, seen map[string]struct{}, r edgeRow) {
	if _, ok := seen[r.SourceID]; !ok {
		seen[r.SourceID] = struct{}{}
		view.Nodes = append(view.Nodes, graphmodel.Node{
			ID:         r.SourceID,
			Label:      r.SourceLabel,
			Type:       r.TargetKey,
			Status:     graphmodel.StatusExisting,
			Properties: decodeProperties(r.SourceProps),
		})
	}
	if _, ok := seen[r.TargetID]; !ok {
		seen[r.TargetID] = struct{}{}
		view.Nodes = append(view.Nodes, graphmodel.Node{
			ID:         r.TargetID,
			Label:      r.TargetLabel,
			Type:       r.SourceKey,
			Status:     graphmodel.StatusExisting,
			Properties: decodeProperties(r.TargetProps),
		})
	}
	view.Edges = append(view.Edges, graphmodel.Edge{
		ID:               syntheticEdgeID(r.SourceID, r.TargetID, r.RelationshipType),
		Source:           r.SourceID,
		Target:           r.TargetID,
		RelationshipType: r.RelationshipType,
		Status:           graphmodel.StatusExisting,
		Properties:       decodeProperties(r.RelationshipProps),
	})
}

// syntheticEdgeID derives a stable id for a warehouse edge, which has no
// id of its own.
func syntheticEdgeID(source, target, relType string) string {
	return fmt.Sprintf("%s-%s-%s", source, target, relType)
}

// denormalize turns a node/edge batch into warehouse rows. Edges whose
// endpoints are not resolvable within the supplied node list are skipped
// and reported back, never written.
func denormalize(nodes []graphmodel.Node, edges []graphmodel.Edge) ([]edgeRow, []string) {
	byID := make(map[string]graphmodel.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var out []edgeRow
	var skipped []string
	for _, e := range edges {
		src, srcOK := byID[e.Source]
		dst, dstOK := byID[e.Target]
		if !srcOK || !dstOK {
			skipped = append(skipped, e.ID)
			continue
		}
		out = append(out, edgeRow{
			SourceID:          src.ID,
			SourceLabel:       src.Label,
			SourceKey:         dst.Type, // key columns describe the opposite side
			SourceProps:       mustEncodeProperties(src.Properties),
			TargetID:          dst.ID,
			TargetLabel:       dst.Label,
			TargetKey:         src.Type,
			TargetProps:       mustEncodeProperties(dst.Properties),
			RelationshipType:  e.RelationshipType,
			RelationshipProps: mustEncodeProperties(e.Properties),
		})
	}
	return out, skipped
}

// WriteGraph inserts one row per resolvable edge, strictly in input order
// and sequentially. Inserts are independent: a failure partway through
// leaves earlier rows committed. Returns how many rows were written.
func (s *DatabricksStore) WriteGraph(ctx context.Context, table string, nodes []graphmodel.Node, edges []graphmodel.Edge) (int, error) {
	tbl, err := s.resolveTable(table)
	if err != nil {
		return 0, err
	}
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	rows, skipped := denormalize(nodes, edges)
	for _, id := range skipped {
		slog.Warn("skipping edge with unresolvable endpoints", "edge_id", id, "table", tbl)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", tbl, edgeTableColumns)
	written := 0
	for _, r := range rows {
		_, err := db.ExecContext(ctx, insert,
			r.SourceID, r.SourceLabel, r.SourceKey, r.SourceProps,
			r.TargetID, r.TargetLabel, r.TargetKey, r.TargetProps,
			r.RelationshipType, r.RelationshipProps,
		)
		if err != nil {
			return written, fmt.Errorf("insert edge %s->%s: %w", r.SourceID, r.TargetID, err)
		}
		written++
	}
	return written, nil
}

// DeleteNode removes every row where either endpoint matches the node id.
func (s *DatabricksStore) DeleteNode(ctx context.Context, table, id string) (bool, error) {
	tbl, err := s.resolveTable(table)
	if err != nil {
		return false, err
	}
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE source_id = ? OR target_id = ?", tbl), id, id)
	if err != nil {
		return false, fmt.Errorf("delete node %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// DeleteEdge removes the row matched by the (source, target, relationship
// type) triple; the warehouse has no synthetic edge id to key on.
func (s *DatabricksStore) DeleteEdge(ctx context.Context, table string, edge graphmodel.Edge) (bool, error) {
	tbl, err := s.resolveTable(table)
	if err != nil {
		return false, err
	}
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE source_id = ? AND target_id = ? AND relationship_type = ?", tbl),
		edge.Source, edge.Target, edge.RelationshipType)
	if err != nil {
		return false, fmt.Errorf("delete edge %s->%s: %w", edge.Source, edge.Target, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func mustEncodeProperties(p graphmodel.Properties) string {
	if len(p) == 0 {
		return "{}"
	}
	data, err := json.Marshal(p)
	if err != nil {
		// Properties are validated scalars at the API boundary; this
		// cannot fail for accepted input.
		return "{}"
	}
	return string(data)
}
