// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for tracker snapshot/restore

package graphedit

import (
	"encoding/json"
	"testing"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTripPreservesState(t *testing.T) {
	tr := NewTracker(graphmodel.GraphView{
		Nodes: []graphmodel.Node{
			{ID: "b1", Label: "Server", Type: "System", Status: graphmodel.StatusExisting},
			{ID: "b2", Label: "Postgres", Type: "Database", Status: graphmodel.StatusExisting},
		},
		Edges: []graphmodel.Edge{
			{ID: "be1", Source: "b1", Target: "b2", RelationshipType: "READS_FROM", Status: graphmodel.StatusExisting},
		},
	})
	_, err := tr.AddNode(graphmodel.Node{ID: "n1", Label: "Alice", Type: "Person"})
	require.NoError(t, err)
	require.NoError(t, tr.UpdateNode("b1", NodePatch{Label: strPtr("App Server")}))
	tr.DeleteNode("b2")

	snap := tr.Snapshot()

	// Drafts travel as JSON; the round trip must survive serialization.
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	restored := FromSnapshot(decoded)
	assert.Equal(t, tr.MergedView(), restored.MergedView())
	assert.Equal(t, tr.PendingCommit(), restored.PendingCommit())
}

func TestSnapshot_IsDetached(t *testing.T) {
	tr := NewTracker(graphmodel.GraphView{
		Nodes: []graphmodel.Node{{ID: "b1", Label: "Server", Status: graphmodel.StatusExisting}},
	})
	snap := tr.Snapshot()
	snap.Base.Nodes[0].Label = "mutated"

	assert.Equal(t, "Server", tr.MergedView().Nodes[0].Label)
}

func TestSnapshot_DeterministicDeletedOrder(t *testing.T) {
	base := graphmodel.GraphView{
		Nodes: []graphmodel.Node{
			{ID: "z", Status: graphmodel.StatusExisting},
			{ID: "a", Status: graphmodel.StatusExisting},
			{ID: "m", Status: graphmodel.StatusExisting},
		},
	}
	tr := NewTracker(base)
	tr.DeleteNode("z")
	tr.DeleteNode("a")
	tr.DeleteNode("m")

	snap := tr.Snapshot()
	assert.Equal(t, []string{"a", "m", "z"}, snap.DeletedNodeIDs)
}
