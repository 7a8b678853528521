// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

// PatchStatus handles PATCH /api/graph/status. Status is a local-store
// concept (the warehouse schema has no status column), so this endpoint
// never touches the primary.
func PatchStatus(gateway *store.Gateway, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.StatusUpdateRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Status must be NEW or EXISTING"))
			return
		}

		nodes, edges, err := gateway.UpdateStatus(c.Request.Context(), req.NodeIDs, req.EdgeIDs,
			graphmodel.Status(req.Status))
		if err != nil {
			slog.Error("status update failed", "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse(store.Sanitize(err)))
			return
		}

		bus.Publish(events.NewChangeEvent(events.KindStatusUpdate, req.NodeIDs, req.EdgeIDs, "local"))
		c.JSON(http.StatusOK, datatypes.StatusUpdateResponse{
			Success:      true,
			Message:      fmt.Sprintf("Updated %d nodes and %d edges to %s", nodes, edges, req.Status),
			UpdatedNodes: nodes,
			UpdatedEdges: edges,
		})
	}
}
