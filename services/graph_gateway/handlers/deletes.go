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
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/middleware"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

// DeleteNode handles DELETE /api/graph/node/:id. The primary delete is
// best-effort; the local delete always runs so the fallback never keeps a
// node the caller removed.
func DeleteNode(gateway *store.Gateway, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Node id is required"))
			return
		}
		table, ok := resolveTableName(c)
		if !ok {
			return
		}

		token := middleware.GetDatabricksToken(c)
		result, err := gateway.DeleteNode(c.Request.Context(), token, table, id)
		if err != nil {
			slog.Error("node delete failed", "node_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse(store.Sanitize(err)))
			return
		}

		bus.Publish(events.NewChangeEvent(events.KindDeleteNode, []string{id}, nil, result.Target))
		c.JSON(http.StatusOK, datatypes.DeleteResponse{
			Success: true,
			Message: "Node deleted from " + result.Target,
			Target:  result.Target,
			Deleted: result.Deleted,
		})
	}
}

// DeleteEdge handles DELETE /api/graph/edge/:id. The warehouse has no
// synthetic edge id, so the gateway resolves the local row to its
// (source, target, relationship type) triple for the primary delete.
func DeleteEdge(gateway *store.Gateway, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Edge id is required"))
			return
		}
		table, ok := resolveTableName(c)
		if !ok {
			return
		}

		token := middleware.GetDatabricksToken(c)
		result, err := gateway.DeleteEdge(c.Request.Context(), token, table, id)
		if err != nil {
			slog.Error("edge delete failed", "edge_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse(store.Sanitize(err)))
			return
		}

		bus.Publish(events.NewChangeEvent(events.KindDeleteEdge, nil, []string{id}, result.Target))
		c.JSON(http.StatusOK, datatypes.DeleteResponse{
			Success: true,
			Message: "Edge deleted from " + result.Target,
			Target:  result.Target,
			Deleted: result.Deleted,
		})
	}
}
