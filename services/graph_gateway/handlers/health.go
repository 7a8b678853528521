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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

// HealthCheck handles GET /health: local store sizes plus warehouse
// configuration (never credentials).
func HealthCheck(gateway *store.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := gateway.Health(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, datatypes.HealthResponse{Status: "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, datatypes.HealthResponse{
			Status: "ok",
			Database: datatypes.HealthDatabase{
				NodeCount: info.NodeCount,
				EdgeCount: info.EdgeCount,
			},
			Databricks: datatypes.HealthDatabricks{
				Configured: info.Configured,
				Host:       info.Host,
				Table:      info.Table,
			},
		})
	}
}
