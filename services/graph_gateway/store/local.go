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
	"strings"
	"time"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	_ "github.com/mattn/go-sqlite3"
)

// localSchema defines the row-oriented fallback tables. Status is stored
// here and only here; the warehouse schema has no status column.
const localSchema = `
CREATE TABLE IF NOT EXISTS nodes (
    id          TEXT PRIMARY KEY,
    label       TEXT NOT NULL,
    node_type   TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'NEW',
    properties  TEXT NOT NULL DEFAULT '{}',
    created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
    id                TEXT PRIMARY KEY,
    source_id         TEXT NOT NULL,
    target_id         TEXT NOT NULL,
    relationship_type TEXT NOT NULL,
    status            TEXT NOT NULL DEFAULT 'NEW',
    properties        TEXT NOT NULL DEFAULT '{}',
    created_at        INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
`

// LocalStore is the durable SQLite fallback store. Multi-row writes run in
// a single transaction, so a fallback batch is all-or-nothing.
type LocalStore struct {
	db *sql.DB
}

// OpenLocalStore opens (or creates) the SQLite database at path and applies
// the schema. Use ":memory:" for tests.
func OpenLocalStore(path string) (*LocalStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer connection avoids SQLITE_BUSY under the gateway's
	// request pattern.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &LocalStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// FetchGraph returns the full node and edge tables ordered by creation
// time (insertion order for ties).
func (s *LocalStore) FetchGraph(ctx context.Context) (graphmodel.GraphView, error) {
	var view graphmodel.GraphView

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, node_type, status, properties FROM nodes ORDER BY created_at, rowid`)
	if err != nil {
		return view, fmt.Errorf("fetch nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n graphmodel.Node
		var props string
		if err := rows.Scan(&n.ID, &n.Label, &n.Type, &n.Status, &props); err != nil {
			return view, fmt.Errorf("scan node: %w", err)
		}
		n.Properties = decodeProperties(props)
		view.Nodes = append(view.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return view, fmt.Errorf("fetch nodes: %w", err)
	}

	erows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, target_id, relationship_type, status, properties FROM edges ORDER BY created_at, rowid`)
	if err != nil {
		return view, fmt.Errorf("fetch edges: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e graphmodel.Edge
		var props string
		if err := erows.Scan(&e.ID, &e.Source, &e.Target, &e.RelationshipType, &e.Status, &props); err != nil {
			return view, fmt.Errorf("scan edge: %w", err)
		}
		e.Properties = decodeProperties(props)
		view.Edges = append(view.Edges, e)
	}
	if err := erows.Err(); err != nil {
		return view, fmt.Errorf("fetch edges: %w", err)
	}

	return view, nil
}

// WriteGraph upserts the whole batch inside one transaction. Either every
// row lands or none do; this is the all-or-nothing guarantee the gateway
// relies on for fallback writes.
func (s *LocalStore) WriteGraph(ctx context.Context, nodes []graphmodel.Node, edges []graphmodel.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()

	for _, n := range nodes {
		props, err := encodeProperties(n.Properties)
		if err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO nodes (id, label, node_type, status, properties, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				label = excluded.label,
				node_type = excluded.node_type,
				status = excluded.status,
				properties = excluded.properties
		`, n.ID, n.Label, n.Type, string(n.Status), props, now)
		if err != nil {
			return fmt.Errorf("write node %s: %w", n.ID, err)
		}
	}

	for _, e := range edges {
		props, err := encodeProperties(e.Properties)
		if err != nil {
			return fmt.Errorf("edge %s: %w", e.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO edges (id, source_id, target_id, relationship_type, status, properties, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				source_id = excluded.source_id,
				target_id = excluded.target_id,
				relationship_type = excluded.relationship_type,
				status = excluded.status,
				properties = excluded.properties
		`, e.ID, e.Source, e.Target, e.RelationshipType, string(e.Status), props, now)
		if err != nil {
			return fmt.Errorf("write edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit write: %w", err)
	}
	return nil
}

// UpdateStatus performs point status updates on the given ids. Returns how
// many node and edge rows changed.
func (s *LocalStore) UpdateStatus(ctx context.Context, nodeIDs, edgeIDs []string, status graphmodel.Status) (int64, int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback()

	var nodeCount, edgeCount int64
	if len(nodeIDs) > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE nodes SET status = ? WHERE id IN (`+placeholders(len(nodeIDs))+`)`,
			statusArgs(status, nodeIDs)...)
		if err != nil {
			return 0, 0, fmt.Errorf("update node status: %w", err)
		}
		nodeCount, _ = res.RowsAffected()
	}
	if len(edgeIDs) > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE edges SET status = ? WHERE id IN (`+placeholders(len(edgeIDs))+`)`,
			statusArgs(status, edgeIDs)...)
		if err != nil {
			return 0, 0, fmt.Errorf("update edge status: %w", err)
		}
		edgeCount, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit status update: %w", err)
	}
	return nodeCount, edgeCount, nil
}

// DeleteNode removes a node and cascades to every edge touching it, in one
// transaction. Returns whether the node row existed.
func (s *LocalStore) DeleteNode(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM edges WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
		return false, fmt.Errorf("delete edges of node %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete node %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return affected > 0, nil
}

// DeleteEdge removes a single edge row. Returns whether it existed.
func (s *LocalStore) DeleteEdge(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM edges WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete edge %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// GetEdge looks up a single edge row by id. Used by the gateway to match
// primary-store deletes, which key on (source, target, relationship type).
func (s *LocalStore) GetEdge(ctx context.Context, id string) (graphmodel.Edge, bool, error) {
	var e graphmodel.Edge
	var props string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source_id, target_id, relationship_type, status, properties FROM edges WHERE id = ?`,
		id).Scan(&e.ID, &e.Source, &e.Target, &e.RelationshipType, &e.Status, &props)
	if err == sql.ErrNoRows {
		return e, false, nil
	}
	if err != nil {
		return e, false, fmt.Errorf("get edge %s: %w", id, err)
	}
	e.Properties = decodeProperties(props)
	return e, true, nil
}

// Counts reports table sizes for the health endpoint.
func (s *LocalStore) Counts(ctx context.Context) (int64, int64, error) {
	var nodes, edges int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&nodes); err != nil {
		return 0, 0, fmt.Errorf("count nodes: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&edges); err != nil {
		return 0, 0, fmt.Errorf("count edges: %w", err)
	}
	return nodes, edges, nil
}

// --- helpers ---

func encodeProperties(p graphmodel.Properties) (string, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode properties: %w", err)
	}
	return string(data), nil
}

func decodeProperties(raw string) graphmodel.Properties {
	if raw == "" || raw == "{}" {
		return nil
	}
	var p graphmodel.Properties
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		// A corrupt blob loses its properties but never fails a read.
		return nil
	}
	return p
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func statusArgs(status graphmodel.Status, ids []string) []any {
	args := make([]any, 0, len(ids)+1)
	args = append(args, string(status))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
