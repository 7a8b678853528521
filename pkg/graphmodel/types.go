// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graphmodel defines the property-graph data model shared by the
// overlay editor and the persistence gateway.
//
// A graph is a set of nodes and edges with string-keyed scalar properties.
// The Status field is a client/local-only annotation that distinguishes
// items the user just created (NEW) from items already present in the
// backing store (EXISTING). Status is persisted to the local store but is
// never part of the warehouse schema.
package graphmodel

import "fmt"

// Status marks whether an item has been confirmed persisted.
type Status string

const (
	// StatusNew marks an item created locally and not yet promoted.
	StatusNew Status = "NEW"

	// StatusExisting marks an item that is part of the base snapshot.
	StatusExisting Status = "EXISTING"
)

// Valid reports whether s is one of the two known status values.
func (s Status) Valid() bool {
	return s == StatusNew || s == StatusExisting
}

// Properties holds string-keyed scalar values (string, number, boolean).
// JSON decoding yields float64 for all numbers; ValidateProperties enforces
// the scalar constraint at API boundaries.
type Properties map[string]any

// Clone returns a shallow copy. Values are scalars, so a shallow copy is a
// full copy.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ValidateProperties rejects non-scalar property values.
func ValidateProperties(p Properties) error {
	for k, v := range p {
		switch v.(type) {
		case string, bool, float64, int, int64:
		default:
			return fmt.Errorf("property %q: unsupported value type %T", k, v)
		}
	}
	return nil
}

// Node is a graph vertex.
type Node struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Type       string     `json:"type"`
	Status     Status     `json:"status"`
	Properties Properties `json:"properties,omitempty"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Properties = n.Properties.Clone()
	return n
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	ID               string     `json:"id"`
	Source           string     `json:"source"`
	Target           string     `json:"target"`
	RelationshipType string     `json:"relationshipType"`
	Status           Status     `json:"status"`
	Properties       Properties `json:"properties,omitempty"`
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	e.Properties = e.Properties.Clone()
	return e
}

// GraphView is a merged projection of nodes and edges. It is always derived
// (base snapshot plus overlay) and never stored directly.
type GraphView struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of the view.
func (v GraphView) Clone() GraphView {
	out := GraphView{
		Nodes: make([]Node, len(v.Nodes)),
		Edges: make([]Edge, len(v.Edges)),
	}
	for i, n := range v.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range v.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// NodeIDs returns the set of node ids present in the view.
func (v GraphView) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(v.Nodes))
	for _, n := range v.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
