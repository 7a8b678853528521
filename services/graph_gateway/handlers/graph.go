// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the gin handlers of the graph gateway HTTP
// surface. Handlers are thin: they validate input, call the store gateway,
// and shape the response envelope. Raw store errors never reach a client;
// only sanitized text does.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGraph/pkg/validation"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/middleware"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

// resolveTableName validates the optional ?tableName= query parameter.
// An invalid name is a hard 400 before any store call. Returns the name
// (possibly empty, meaning "use the configured default") and whether the
// request may proceed.
func resolveTableName(c *gin.Context) (string, bool) {
	table := c.Query("tableName")
	if table == "" {
		return "", true
	}
	if err := validation.ValidateTableName(table); err != nil {
		slog.Warn("rejected invalid table name", "table", table)
		c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Invalid table name."))
		return "", false
	}
	return table, true
}

// GetGraph handles GET /api/graph: the full graph from the primary store,
// falling back to the local store.
func GetGraph(gateway *store.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := resolveTableName(c)
		if !ok {
			return
		}
		token := middleware.GetDatabricksToken(c)

		view, prov, err := gateway.FetchGraph(c.Request.Context(), token, table)
		if err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse(store.Sanitize(err)))
			return
		}

		c.JSON(http.StatusOK, datatypes.NewGraphResponse(view, datatypes.NewMetadata(prov)))
	}
}

// PostGraph handles POST /api/graph: persist a committed batch of nodes
// and edges. An empty batch is a no-op success and touches no store.
func PostGraph(gateway *store.Gateway, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, ok := resolveTableName(c)
		if !ok {
			return
		}

		var req datatypes.WriteRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Invalid request body"))
			return
		}
		if err := req.Validate(); err != nil {
			slog.Warn("rejected oversized write batch", "nodes", len(req.Nodes), "edges", len(req.Edges))
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Write batch exceeds limits"))
			return
		}
		if req.Empty() {
			c.JSON(http.StatusOK, datatypes.WriteResponse{
				Success: true,
				Message: "Nothing to save",
			})
			return
		}

		token := middleware.GetDatabricksToken(c)
		result, prov, err := gateway.WriteGraph(c.Request.Context(), token, table, req.Nodes, req.Edges)
		if err != nil {
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse(store.Sanitize(err)))
			return
		}

		nodeIDs := make([]string, 0, len(req.Nodes))
		for _, n := range req.Nodes {
			nodeIDs = append(nodeIDs, n.ID)
		}
		edgeIDs := make([]string, 0, len(req.Edges))
		for _, e := range req.Edges {
			edgeIDs = append(edgeIDs, e.ID)
		}
		bus.Publish(events.NewChangeEvent(events.KindWrite, nodeIDs, edgeIDs, string(prov.Source)))

		slog.Info("graph batch persisted",
			"target", result.Target, "job_id", result.JobID,
			"nodes", result.WrittenNodes, "edges", result.WrittenEdges)
		c.JSON(http.StatusOK, datatypes.WriteResponse{
			Success:      true,
			Message:      "Graph saved to " + result.Target,
			Target:       result.Target,
			JobID:        result.JobID,
			WrittenNodes: result.WrittenNodes,
			WrittenEdges: result.WrittenEdges,
			Metadata:     datatypes.NewMetadata(prov),
		})
	}
}
