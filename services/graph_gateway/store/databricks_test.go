// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the denormalized warehouse row mapping

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
)

func TestDatabricksConfig_Configured(t *testing.T) {
	assert.False(t, DatabricksConfig{}.Configured())
	assert.False(t, DatabricksConfig{Hostname: "h"}.Configured())
	assert.True(t, DatabricksConfig{Hostname: "h", HTTPPath: "/sql/1.0/warehouses/x"}.Configured())
}

func TestDatabricksStore_EnabledNeedsToken(t *testing.T) {
	cfg := DatabricksConfig{Hostname: "h", HTTPPath: "/p"}
	assert.False(t, NewDatabricksStore(cfg, "").Enabled())
	assert.True(t, NewDatabricksStore(cfg, "dapi123").Enabled())

	// Server-side default token kicks in when no request token is given.
	cfg.Token = "server-token"
	assert.True(t, NewDatabricksStore(cfg, "").Enabled())
}

func TestResolveTable_RejectsInjection(t *testing.T) {
	s := NewDatabricksStore(DatabricksConfig{Hostname: "h", HTTPPath: "/p", Table: "main.default.edges"}, "tok")

	tbl, err := s.resolveTable("")
	require.NoError(t, err)
	assert.Equal(t, "main.default.edges", tbl)

	tbl, err = s.resolveTable("other.schema.tbl")
	require.NoError(t, err)
	assert.Equal(t, "other.schema.tbl", tbl)

	_, err = s.resolveTable("main.default.tbl; DROP TABLE x")
	assert.Error(t, err)

	_, err = s.resolveTable("a.b.c.d")
	assert.Error(t, err)
}

func TestSyntheticEdgeID(t *testing.T) {
	assert.Equal(t, "n1-n2-KNOWS", syntheticEdgeID("n1", "n2", "KNOWS"))
}

func TestDenormalize_OppositeKeyInversion(t *testing.T) {
	nodes := []graphmodel.Node{
		{ID: "n1", Label: "Alice", Type: "Person", Status: graphmodel.StatusNew},
		{ID: "n2", Label: "AcmeCo", Type: "Company", Status: graphmodel.StatusNew},
	}
	edges := []graphmodel.Edge{
		{ID: "e1", Source: "n1", Target: "n2", RelationshipType: "WORKS_AT", Status: graphmodel.StatusNew},
	}

	rows, skipped := denormalize(nodes, edges)
	require.Empty(t, skipped)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "n1", r.SourceID)
	assert.Equal(t, "n2", r.TargetID)
	// Key columns carry the OPPOSITE endpoint's type.
	assert.Equal(t, "Company", r.SourceKey)
	assert.Equal(t, "Person", r.TargetKey)
	assert.Equal(t, "WORKS_AT", r.RelationshipType)
}

func TestDenormalize_SkipsUnresolvableEdges(t *testing.T) {
	nodes := []graphmodel.Node{
		{ID: "n1", Label: "A", Type: "T", Status: graphmodel.StatusNew},
	}
	edges := []graphmodel.Edge{
		{ID: "good", Source: "n1", Target: "n1", RelationshipType: "SELF", Status: graphmodel.StatusNew},
		{ID: "bad", Source: "n1", Target: "ghost", RelationshipType: "KNOWS", Status: graphmodel.StatusNew},
	}

	rows, skipped := denormalize(nodes, edges)
	assert.Len(t, rows, 1)
	assert.Equal(t, []string{"bad"}, skipped)
}

func TestAccumulateRow_RebuildsNormalizedModel(t *testing.T) {
	var view graphmodel.GraphView
	seen := make(map[string]struct{})

	accumulateRow(&view, seen, edgeRow{
		SourceID: "n1", SourceLabel: "Alice", SourceKey: "Company", SourceProps: `{"age":30}`,
		TargetID: "n2", TargetLabel: "AcmeCo", TargetKey: "Person", TargetProps: `{}`,
		RelationshipType: "WORKS_AT", RelationshipProps: `{"since":2020}`,
	})

	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)

	// The inversion on read mirrors the inversion on write, so round
	// trips are stable: n1's type comes from the target-side key column.
	assert.Equal(t, "Person", view.Nodes[0].Type)
	assert.Equal(t, "Company", view.Nodes[1].Type)
	assert.Equal(t, graphmodel.StatusExisting, view.Nodes[0].Status)
	assert.Equal(t, float64(30), view.Nodes[0].Properties["age"])

	e := view.Edges[0]
	assert.Equal(t, "n1-n2-WORKS_AT", e.ID)
	assert.Equal(t, "WORKS_AT", e.RelationshipType)
	assert.Equal(t, graphmodel.StatusExisting, e.Status)
	assert.Equal(t, float64(2020), e.Properties["since"])
}

func TestAccumulateRow_FirstSeenWins(t *testing.T) {
	var view graphmodel.GraphView
	seen := make(map[string]struct{})

	accumulateRow(&view, seen, edgeRow{
		SourceID: "n1", SourceLabel: "First", SourceKey: "T", SourceProps: `{}`,
		TargetID: "n2", TargetLabel: "B", TargetKey: "T", TargetProps: `{}`,
		RelationshipType: "R1", RelationshipProps: `{}`,
	})
	accumulateRow(&view, seen, edgeRow{
		SourceID: "n1", SourceLabel: "Second", SourceKey: "T", SourceProps: `{}`,
		TargetID: "n3", TargetLabel: "C", TargetKey: "T", TargetProps: `{}`,
		RelationshipType: "R2", RelationshipProps: `{}`,
	})

	require.Len(t, view.Nodes, 3)
	assert.Equal(t, "First", view.Nodes[0].Label)
	assert.Len(t, view.Edges, 2)
}
