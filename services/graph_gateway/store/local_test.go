// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the SQLite fallback store

package store

import (
	"context"
	"testing"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleBatch() ([]graphmodel.Node, []graphmodel.Edge) {
	nodes := []graphmodel.Node{
		{ID: "n1", Label: "Alice", Type: "Person", Status: graphmodel.StatusNew,
			Properties: graphmodel.Properties{"team": "core", "active": true}},
		{ID: "n2", Label: "Bob", Type: "Person", Status: graphmodel.StatusNew},
	}
	edges := []graphmodel.Edge{
		{ID: "e1", Source: "n1", Target: "n2", RelationshipType: "KNOWS", Status: graphmodel.StatusNew,
			Properties: graphmodel.Properties{"since": float64(2021)}},
	}
	return nodes, edges
}

func TestLocalStore_WriteAndFetchRoundTrip(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)

	assert.Equal(t, "Alice", view.Nodes[0].Label)
	assert.Equal(t, graphmodel.StatusNew, view.Nodes[0].Status)
	assert.Equal(t, "core", view.Nodes[0].Properties["team"])
	assert.Equal(t, true, view.Nodes[0].Properties["active"])
	assert.Equal(t, "KNOWS", view.Edges[0].RelationshipType)
	assert.Equal(t, float64(2021), view.Edges[0].Properties["since"])
}

func TestLocalStore_FetchOrderedByCreation(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGraph(ctx, []graphmodel.Node{{ID: "z", Label: "Z", Type: "T", Status: graphmodel.StatusNew}}, nil))
	require.NoError(t, s.WriteGraph(ctx, []graphmodel.Node{{ID: "a", Label: "A", Type: "T", Status: graphmodel.StatusNew}}, nil))

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 2)
	assert.Equal(t, "z", view.Nodes[0].ID)
	assert.Equal(t, "a", view.Nodes[1].ID)
}

func TestLocalStore_WriteIsUpsert(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteGraph(ctx, []graphmodel.Node{{ID: "n1", Label: "Old", Type: "T", Status: graphmodel.StatusNew}}, nil))
	require.NoError(t, s.WriteGraph(ctx, []graphmodel.Node{{ID: "n1", Label: "New", Type: "T", Status: graphmodel.StatusExisting}}, nil))

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "New", view.Nodes[0].Label)
	assert.Equal(t, graphmodel.StatusExisting, view.Nodes[0].Status)
}

func TestLocalStore_UpdateStatus(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	updatedNodes, updatedEdges, err := s.UpdateStatus(ctx, []string{"n1", "n2", "ghost"}, []string{"e1"}, graphmodel.StatusExisting)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updatedNodes)
	assert.Equal(t, int64(1), updatedEdges)

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	for _, n := range view.Nodes {
		assert.Equal(t, graphmodel.StatusExisting, n.Status)
	}
	assert.Equal(t, graphmodel.StatusExisting, view.Edges[0].Status)
}

func TestLocalStore_DeleteNodeCascades(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	deleted, err := s.DeleteNode(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, deleted)

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "n2", view.Nodes[0].ID)
	assert.Empty(t, view.Edges)
}

func TestLocalStore_DeleteMissingNodeReportsFalse(t *testing.T) {
	s := newTestLocalStore(t)
	deleted, err := s.DeleteNode(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestLocalStore_DeleteEdgeLeavesNodes(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	deleted, err := s.DeleteEdge(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, deleted)

	view, err := s.FetchGraph(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Nodes, 2)
	assert.Empty(t, view.Edges)
}

func TestLocalStore_GetEdge(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	edge, found, err := s.GetEdge(ctx, "e1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "n1", edge.Source)
	assert.Equal(t, "n2", edge.Target)
	assert.Equal(t, "KNOWS", edge.RelationshipType)

	_, found, err = s.GetEdge(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocalStore_Counts(t *testing.T) {
	s := newTestLocalStore(t)
	ctx := context.Background()

	nodes, edges := sampleBatch()
	require.NoError(t, s.WriteGraph(ctx, nodes, edges))

	nodeCount, edgeCount, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodeCount)
	assert.Equal(t, int64(1), edgeCount)
}
