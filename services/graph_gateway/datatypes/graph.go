// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response envelopes for the graph
// gateway service.
//
// Every response that touched a store carries a Metadata block describing
// which backend actually served the request, so the UI can surface the
// provenance (and any sanitized warehouse error) next to the data.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxNodesPerWrite bounds a single write batch.
	MaxNodesPerWrite = 5000

	// MaxEdgesPerWrite bounds a single write batch.
	MaxEdgesPerWrite = 20000

	// MaxIDsPerStatusUpdate bounds one status update request.
	MaxIDsPerStatusUpdate = 5000
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// graphValidate is the validator instance for gateway datatypes.
var graphValidate *validator.Validate

func init() {
	graphValidate = validator.New()
}

// =============================================================================
// Provenance Metadata
// =============================================================================

// Metadata is the wire form of store.Provenance: which store served the
// request, whether the warehouse was even attempted, and the sanitized
// warehouse error, if any. Duration is reported in milliseconds.
type Metadata struct {
	Source            string `json:"source"`
	DatabricksEnabled bool   `json:"databricksEnabled"`
	DatabricksError   string `json:"databricksError,omitempty"`
	Timestamp         int64  `json:"timestamp"`
	DurationMs        int64  `json:"duration"`
}

// NewMetadata converts gateway provenance to its wire form.
func NewMetadata(p store.Provenance) Metadata {
	return Metadata{
		Source:            string(p.Source),
		DatabricksEnabled: p.DatabricksEnabled,
		DatabricksError:   p.DatabricksError,
		Timestamp:         p.Timestamp.UnixMilli(),
		DurationMs:        p.Duration.Milliseconds(),
	}
}

// =============================================================================
// Graph Read
// =============================================================================

// GraphResponse is the body of GET /api/graph. Nodes and Edges are never
// null on success; empty graphs serialize as empty arrays.
type GraphResponse struct {
	Success  bool              `json:"success"`
	Nodes    []graphmodel.Node `json:"nodes"`
	Edges    []graphmodel.Edge `json:"edges"`
	Metadata Metadata          `json:"metadata"`
}

// NewGraphResponse builds a success response, normalizing nil slices.
func NewGraphResponse(view graphmodel.GraphView, meta Metadata) GraphResponse {
	if view.Nodes == nil {
		view.Nodes = []graphmodel.Node{}
	}
	if view.Edges == nil {
		view.Edges = []graphmodel.Edge{}
	}
	return GraphResponse{Success: true, Nodes: view.Nodes, Edges: view.Edges, Metadata: meta}
}

// =============================================================================
// Graph Write
// =============================================================================

// WriteRequest is the body of POST /api/graph: the batch of committed
// overlay items to persist. Empty arrays are a valid no-op.
type WriteRequest struct {
	Nodes []graphmodel.Node `json:"nodes" validate:"max=5000"`
	Edges []graphmodel.Edge `json:"edges" validate:"max=20000"`
}

// Validate checks batch limits.
func (r *WriteRequest) Validate() error {
	return graphValidate.Struct(r)
}

// Empty reports whether the batch contains nothing to write.
func (r *WriteRequest) Empty() bool {
	return len(r.Nodes) == 0 && len(r.Edges) == 0
}

// WriteResponse is the body of POST /api/graph.
type WriteResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Target       string   `json:"target,omitempty"`
	JobID        string   `json:"jobId,omitempty"`
	WrittenNodes int      `json:"writtenNodes"`
	WrittenEdges int      `json:"writtenEdges"`
	Metadata     Metadata `json:"metadata"`
}

// =============================================================================
// Status Update
// =============================================================================

// StatusUpdateRequest is the body of PATCH /api/graph/status. Status must
// be one of the two lifecycle states; ids unknown to the local store are
// counted out of the update totals, not errors.
type StatusUpdateRequest struct {
	NodeIDs []string `json:"nodeIds" validate:"max=5000"`
	EdgeIDs []string `json:"edgeIds" validate:"max=5000"`
	Status  string   `json:"status" validate:"required,oneof=NEW EXISTING"`
}

// Validate checks the status value and id list bounds.
func (r *StatusUpdateRequest) Validate() error {
	return graphValidate.Struct(r)
}

// StatusUpdateResponse is the body of PATCH /api/graph/status.
type StatusUpdateResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UpdatedNodes int64  `json:"updatedNodes"`
	UpdatedEdges int64  `json:"updatedEdges"`
}

// =============================================================================
// Deletes
// =============================================================================

// DeleteResponse is the body of the two DELETE endpoints.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Target  string `json:"target"`
	Deleted bool   `json:"deleted"`
}

// =============================================================================
// Health
// =============================================================================

// HealthDatabase reports local store sizes.
type HealthDatabase struct {
	NodeCount int64 `json:"nodeCount"`
	EdgeCount int64 `json:"edgeCount"`
}

// HealthDatabricks reports warehouse configuration, never credentials.
type HealthDatabricks struct {
	Configured bool   `json:"configured"`
	Host       string `json:"host,omitempty"`
	Table      string `json:"table,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string           `json:"status"`
	Database   HealthDatabase   `json:"database"`
	Databricks HealthDatabricks `json:"databricks"`
}

// =============================================================================
// Errors
// =============================================================================

// ErrorResponse is the uniform failure envelope. Error always carries
// sanitized text only.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// =============================================================================
// Drafts
// =============================================================================

// DraftResponse acknowledges draft save/delete operations.
type DraftResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	Deleted   bool   `json:"deleted,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewDraftResponse builds an acknowledgement stamped with the current time.
func NewDraftResponse(sessionID string, deleted bool) DraftResponse {
	return DraftResponse{
		Success:   true,
		SessionID: sessionID,
		Deleted:   deleted,
		Timestamp: time.Now().UnixMilli(),
	}
}
