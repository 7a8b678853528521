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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

// wsWriteTimeout bounds a single frame write toward a slow client.
const wsWriteTimeout = 10 * time.Second

// GraphChangeFeed handles GET /api/graph/ws: upgrades to a websocket and
// streams ChangeEvents as JSON until the client disconnects. A client too
// slow to keep up misses events rather than blocking writers; it can
// refetch the graph to resync.
func GraphChangeFeed(bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		feedID := uuid.New().String()
		slog.Info("change feed client connected", "feed_id", feedID)

		eventCh, cancel := bus.Subscribe()
		defer cancel()

		// Drain (and discard) client frames so pings and close frames are
		// processed; signal the writer loop when the client goes away.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := ws.WriteJSON(map[string]any{"action": "feed_connected", "feedId": feedID}); err != nil {
			return
		}

		for {
			select {
			case event, ok := <-eventCh:
				if !ok {
					return
				}
				_ = ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := ws.WriteJSON(event); err != nil {
					slog.Info("change feed client disconnected", "feed_id", feedID, "error", err.Error())
					return
				}
			case <-done:
				slog.Info("change feed client closed connection", "feed_id", feedID)
				return
			}
		}
	}
}
