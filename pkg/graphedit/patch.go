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

import "github.com/AleutianAI/AleutianGraph/pkg/graphmodel"

// NodePatch is a partial update for a node. Nil pointer fields are left
// untouched; Properties are merged key-wise over the existing map.
type NodePatch struct {
	Label      *string               `json:"label,omitempty"`
	Type       *string               `json:"type,omitempty"`
	Properties graphmodel.Properties `json:"properties,omitempty"`
}

// merge folds a later patch into p. Later values win.
func (p *NodePatch) merge(next NodePatch) {
	if next.Label != nil {
		p.Label = next.Label
	}
	if next.Type != nil {
		p.Type = next.Type
	}
	if len(next.Properties) > 0 {
		if p.Properties == nil {
			p.Properties = graphmodel.Properties{}
		}
		for k, v := range next.Properties {
			p.Properties[k] = v
		}
	}
}

// applyTo writes the patch onto a node copy and returns it.
func (p NodePatch) applyTo(n graphmodel.Node) graphmodel.Node {
	n = n.Clone()
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.Type != nil {
		n.Type = *p.Type
	}
	if len(p.Properties) > 0 {
		if n.Properties == nil {
			n.Properties = graphmodel.Properties{}
		}
		for k, v := range p.Properties {
			n.Properties[k] = v
		}
	}
	return n
}

// EdgePatch is a partial update for an edge. The endpoints of an edge are
// immutable; only the relationship type and properties can change.
type EdgePatch struct {
	RelationshipType *string               `json:"relationshipType,omitempty"`
	Properties       graphmodel.Properties `json:"properties,omitempty"`
}

func (p *EdgePatch) merge(next EdgePatch) {
	if next.RelationshipType != nil {
		p.RelationshipType = next.RelationshipType
	}
	if len(next.Properties) > 0 {
		if p.Properties == nil {
			p.Properties = graphmodel.Properties{}
		}
		for k, v := range next.Properties {
			p.Properties[k] = v
		}
	}
}

func (p EdgePatch) applyTo(e graphmodel.Edge) graphmodel.Edge {
	e = e.Clone()
	if p.RelationshipType != nil {
		e.RelationshipType = *p.RelationshipType
	}
	if len(p.Properties) > 0 {
		if e.Properties == nil {
			e.Properties = graphmodel.Properties{}
		}
		for k, v := range p.Properties {
			e.Properties[k] = v
		}
	}
	return e
}
