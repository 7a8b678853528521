// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graphedit

import (
	"sort"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
)

// Snapshot is the serializable form of a Tracker, used for draft
// persistence (session autosave/resume). Deleted id slices are sorted so
// two snapshots of the same state marshal identically.
type Snapshot struct {
	Base           graphmodel.GraphView `json:"base"`
	CreatedNodes   []graphmodel.Node    `json:"createdNodes,omitempty"`
	CreatedEdges   []graphmodel.Edge    `json:"createdEdges,omitempty"`
	ModifiedNodes  map[string]NodePatch `json:"modifiedNodes,omitempty"`
	ModifiedEdges  map[string]EdgePatch `json:"modifiedEdges,omitempty"`
	DeletedNodeIDs []string             `json:"deletedNodeIds,omitempty"`
	DeletedEdgeIDs []string             `json:"deletedEdgeIds,omitempty"`
}

// Snapshot captures the full tracker state as a detached copy.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Base:          t.base.Clone(),
		ModifiedNodes: make(map[string]NodePatch, len(t.modifiedNodes)),
		ModifiedEdges: make(map[string]EdgePatch, len(t.modifiedEdges)),
	}
	for _, n := range t.createdNodes {
		s.CreatedNodes = append(s.CreatedNodes, n.Clone())
	}
	for _, e := range t.createdEdges {
		s.CreatedEdges = append(s.CreatedEdges, e.Clone())
	}
	for id, p := range t.modifiedNodes {
		s.ModifiedNodes[id] = p
	}
	for id, p := range t.modifiedEdges {
		s.ModifiedEdges[id] = p
	}
	for id := range t.deletedNodeIDs {
		s.DeletedNodeIDs = append(s.DeletedNodeIDs, id)
	}
	for id := range t.deletedEdgeIDs {
		s.DeletedEdgeIDs = append(s.DeletedEdgeIDs, id)
	}
	sort.Strings(s.DeletedNodeIDs)
	sort.Strings(s.DeletedEdgeIDs)
	return s
}

// FromSnapshot rebuilds a tracker from a previously captured snapshot.
func FromSnapshot(s Snapshot) *Tracker {
	t := NewTracker(s.Base)
	for _, n := range s.CreatedNodes {
		t.createdNodes = append(t.createdNodes, n.Clone())
	}
	for _, e := range s.CreatedEdges {
		t.createdEdges = append(t.createdEdges, e.Clone())
	}
	for id, p := range s.ModifiedNodes {
		t.modifiedNodes[id] = p
	}
	for id, p := range s.ModifiedEdges {
		t.modifiedEdges[id] = p
	}
	for _, id := range s.DeletedNodeIDs {
		t.deletedNodeIDs[id] = struct{}{}
	}
	for _, id := range s.DeletedEdgeIDs {
		t.deletedEdgeIDs[id] = struct{}{}
	}
	return t
}
