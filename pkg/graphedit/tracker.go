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
	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
)

// Tracker reconciles an immutable base snapshot with pending user edits.
type Tracker struct {
	base graphmodel.GraphView

	createdNodes []graphmodel.Node
	createdEdges []graphmodel.Edge

	modifiedNodes map[string]NodePatch
	modifiedEdges map[string]EdgePatch

	deletedNodeIDs map[string]struct{}
	deletedEdgeIDs map[string]struct{}
}

// NewTracker creates a tracker over a deep copy of base. The caller's view
// is never mutated.
func NewTracker(base graphmodel.GraphView) *Tracker {
	t := &Tracker{}
	t.ResetTo(base)
	return t
}

// ResetTo replaces the base snapshot and clears all overlay state
// unconditionally. Used after any fresh fetch from a backing store.
func (t *Tracker) ResetTo(base graphmodel.GraphView) {
	t.base = base.Clone()
	t.createdNodes = nil
	t.createdEdges = nil
	t.modifiedNodes = make(map[string]NodePatch)
	t.modifiedEdges = make(map[string]EdgePatch)
	t.deletedNodeIDs = make(map[string]struct{})
	t.deletedEdgeIDs = make(map[string]struct{})
}

// AddNode records a user-created node. Status is forced to NEW. The id must
// be non-empty and must not collide with any base or created node id,
// tombstoned or not.
func (t *Tracker) AddNode(draft graphmodel.Node) (graphmodel.Node, error) {
	if draft.ID == "" {
		return graphmodel.Node{}, ErrEmptyID
	}
	if t.nodeIDTaken(draft.ID) {
		return graphmodel.Node{}, ErrDuplicateID
	}
	n := draft.Clone()
	n.Status = graphmodel.StatusNew
	t.createdNodes = append(t.createdNodes, n)
	return n.Clone(), nil
}

// AddEdge records a user-created edge. Both endpoints must resolve in the
// current merged view.
func (t *Tracker) AddEdge(draft graphmodel.Edge) (graphmodel.Edge, error) {
	if draft.ID == "" {
		return graphmodel.Edge{}, ErrEmptyID
	}
	if t.edgeIDTaken(draft.ID) {
		return graphmodel.Edge{}, ErrDuplicateID
	}
	if !t.nodeVisible(draft.Source) || !t.nodeVisible(draft.Target) {
		return graphmodel.Edge{}, ErrEndpointMissing
	}
	e := draft.Clone()
	e.Status = graphmodel.StatusNew
	t.createdEdges = append(t.createdEdges, e)
	return e.Clone(), nil
}

// UpdateNode applies a partial patch. Created nodes are patched in place;
// base nodes accumulate the patch in the modified set. Patching a
// tombstoned base node is recorded but never resurrects it: the merged
// view filters tombstones last.
func (t *Tracker) UpdateNode(id string, patch NodePatch) error {
	for i := range t.createdNodes {
		if t.createdNodes[i].ID == id {
			t.createdNodes[i] = patch.applyTo(t.createdNodes[i])
			return nil
		}
	}
	if !t.baseHasNode(id) {
		return ErrNotFound
	}
	existing := t.modifiedNodes[id]
	existing.merge(patch)
	t.modifiedNodes[id] = existing
	return nil
}

// UpdateEdge is the edge counterpart of UpdateNode.
func (t *Tracker) UpdateEdge(id string, patch EdgePatch) error {
	for i := range t.createdEdges {
		if t.createdEdges[i].ID == id {
			t.createdEdges[i] = patch.applyTo(t.createdEdges[i])
			return nil
		}
	}
	if !t.baseHasEdge(id) {
		return ErrNotFound
	}
	existing := t.modifiedEdges[id]
	existing.merge(patch)
	t.modifiedEdges[id] = existing
	return nil
}

// DeleteNode removes a node and cascades to every edge touching it, all
// within the same overlay mutation. A created node is purged outright (no
// tombstone); a base node is tombstoned. Deleting an unknown or
// already-deleted id is a no-op.
func (t *Tracker) DeleteNode(id string) {
	if t.removeCreatedNode(id) {
		// Base edges can reference a created node when an edge was
		// promoted ahead of its endpoints, so cascade there too.
		t.tombstoneBaseEdgesTouching(id)
		t.purgeCreatedEdgesTouching(id)
		return
	}
	if !t.baseHasNode(id) {
		return
	}
	t.deletedNodeIDs[id] = struct{}{}
	t.tombstoneBaseEdgesTouching(id)
	t.purgeCreatedEdgesTouching(id)
}

func (t *Tracker) tombstoneBaseEdgesTouching(nodeID string) {
	for _, e := range t.base.Edges {
		if e.Source == nodeID || e.Target == nodeID {
			t.deletedEdgeIDs[e.ID] = struct{}{}
		}
	}
}

// DeleteEdge removes a single edge. Created edges are purged; base edges
// are tombstoned. Unknown ids are a no-op.
func (t *Tracker) DeleteEdge(id string) {
	for i := range t.createdEdges {
		if t.createdEdges[i].ID == id {
			t.createdEdges = append(t.createdEdges[:i], t.createdEdges[i+1:]...)
			return
		}
	}
	if t.baseHasEdge(id) {
		t.deletedEdgeIDs[id] = struct{}{}
	}
}

// MergedView projects base + overlay into one consistent snapshot:
// base items filtered by tombstones, patches applied, surviving created
// items appended in insertion order. The result is a deep copy; callers
// can hold it across further mutations.
func (t *Tracker) MergedView() graphmodel.GraphView {
	var view graphmodel.GraphView

	for _, n := range t.base.Nodes {
		if _, gone := t.deletedNodeIDs[n.ID]; gone {
			continue
		}
		if patch, ok := t.modifiedNodes[n.ID]; ok {
			view.Nodes = append(view.Nodes, patch.applyTo(n))
		} else {
			view.Nodes = append(view.Nodes, n.Clone())
		}
	}
	for _, n := range t.createdNodes {
		view.Nodes = append(view.Nodes, n.Clone())
	}

	for _, e := range t.base.Edges {
		if _, gone := t.deletedEdgeIDs[e.ID]; gone {
			continue
		}
		// Cascade tombstones already cover endpoint deletion; the filter
		// here keeps invariant 2 even if a tombstone was added directly.
		if _, gone := t.deletedNodeIDs[e.Source]; gone {
			continue
		}
		if _, gone := t.deletedNodeIDs[e.Target]; gone {
			continue
		}
		if patch, ok := t.modifiedEdges[e.ID]; ok {
			view.Edges = append(view.Edges, patch.applyTo(e))
		} else {
			view.Edges = append(view.Edges, e.Clone())
		}
	}
	for _, e := range t.createdEdges {
		view.Edges = append(view.Edges, e.Clone())
	}

	return view
}

// PendingCommit selects only created items for persistence. Items removed
// by cascading deletes are already gone from the created sets, so the
// selection is exactly what must be written.
func (t *Tracker) PendingCommit() graphmodel.GraphView {
	var out graphmodel.GraphView
	for _, n := range t.createdNodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}
	for _, e := range t.createdEdges {
		out.Edges = append(out.Edges, e.Clone())
	}
	return out
}

// HasPending reports whether anything would be selected for commit.
func (t *Tracker) HasPending() bool {
	return len(t.createdNodes) > 0 || len(t.createdEdges) > 0
}

// Promote moves acknowledged created items into the base snapshot,
// rewriting their status to EXISTING. Ids not present in the created sets
// are skipped, which makes Promote idempotent.
func (t *Tracker) Promote(nodeIDs, edgeIDs []string) {
	for _, id := range nodeIDs {
		if n, ok := t.takeCreatedNode(id); ok {
			n.Status = graphmodel.StatusExisting
			t.base.Nodes = append(t.base.Nodes, n)
		}
	}
	for _, id := range edgeIDs {
		if e, ok := t.takeCreatedEdge(id); ok {
			e.Status = graphmodel.StatusExisting
			t.base.Edges = append(t.base.Edges, e)
		}
	}
}

// --- internal helpers ---

func (t *Tracker) baseHasNode(id string) bool {
	for _, n := range t.base.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func (t *Tracker) baseHasEdge(id string) bool {
	for _, e := range t.base.Edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (t *Tracker) nodeIDTaken(id string) bool {
	if t.baseHasNode(id) {
		return true
	}
	for _, n := range t.createdNodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

func (t *Tracker) edgeIDTaken(id string) bool {
	if t.baseHasEdge(id) {
		return true
	}
	for _, e := range t.createdEdges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// nodeVisible reports whether a node id resolves in the merged view.
func (t *Tracker) nodeVisible(id string) bool {
	if _, gone := t.deletedNodeIDs[id]; gone {
		return false
	}
	return t.nodeIDTaken(id)
}

func (t *Tracker) removeCreatedNode(id string) bool {
	for i := range t.createdNodes {
		if t.createdNodes[i].ID == id {
			t.createdNodes = append(t.createdNodes[:i], t.createdNodes[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tracker) purgeCreatedEdgesTouching(nodeID string) {
	kept := t.createdEdges[:0]
	for _, e := range t.createdEdges {
		if e.Source != nodeID && e.Target != nodeID {
			kept = append(kept, e)
		}
	}
	t.createdEdges = kept
}

func (t *Tracker) takeCreatedNode(id string) (graphmodel.Node, bool) {
	for i := range t.createdNodes {
		if t.createdNodes[i].ID == id {
			n := t.createdNodes[i]
			t.createdNodes = append(t.createdNodes[:i], t.createdNodes[i+1:]...)
			return n, true
		}
	}
	return graphmodel.Node{}, false
}

func (t *Tracker) takeCreatedEdge(id string) (graphmodel.Edge, bool) {
	for i := range t.createdEdges {
		if t.createdEdges[i].ID == id {
			e := t.createdEdges[i]
			t.createdEdges = append(t.createdEdges[:i], t.createdEdges[i+1:]...)
			return e, true
		}
	}
	return graphmodel.Edge{}, false
}
