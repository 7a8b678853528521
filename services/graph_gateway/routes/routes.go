// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/handlers"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/middleware"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/session"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

func SetupRoutes(router *gin.Engine, gateway *store.Gateway, drafts *session.DraftStore,
	bus *events.Bus, registry *prometheus.Registry) {

	router.GET("/health", handlers.HealthCheck(gateway))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(middleware.TokenMiddleware())
	{
		api.GET("/graph", handlers.GetGraph(gateway))
		api.POST("/graph", handlers.PostGraph(gateway, bus))
		api.PATCH("/graph/status", handlers.PatchStatus(gateway, bus))
		api.DELETE("/graph/node/:id", handlers.DeleteNode(gateway, bus))
		api.DELETE("/graph/edge/:id", handlers.DeleteEdge(gateway, bus))
		api.GET("/graph/ws", handlers.GraphChangeFeed(bus))
		// Overlay draft persistence routes
		sessionGroup := api.Group("/session")
		{
			sessionGroup.PUT("/:id/draft", handlers.PutDraft(drafts))
			sessionGroup.GET("/:id/draft", handlers.GetDraft(drafts))
			sessionGroup.DELETE("/:id/draft", handlers.DeleteDraft(drafts))
		}
	}
}
