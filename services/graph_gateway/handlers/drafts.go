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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianGraph/pkg/graphedit"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/session"
)

// PutDraft handles PUT /api/session/:id/draft: persist the overlay state
// of an editing session so the UI can resume it later.
func PutDraft(drafts *session.DraftStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")

		var snap graphedit.Snapshot
		if err := c.BindJSON(&snap); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.NewErrorResponse("Invalid draft body"))
			return
		}

		if err := drafts.Save(sessionID, snap); err != nil {
			slog.Error("draft save failed", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse("Could not save draft"))
			return
		}
		c.JSON(http.StatusOK, datatypes.NewDraftResponse(sessionID, false))
	}
}

// GetDraft handles GET /api/session/:id/draft.
func GetDraft(drafts *session.DraftStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")

		snap, err := drafts.Load(sessionID)
		if err != nil {
			if errors.Is(err, session.ErrDraftNotFound) {
				c.JSON(http.StatusNotFound, datatypes.NewErrorResponse("No draft for session"))
				return
			}
			slog.Error("draft load failed", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse("Could not load draft"))
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// DeleteDraft handles DELETE /api/session/:id/draft.
func DeleteDraft(drafts *session.DraftStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")

		existed, err := drafts.Delete(sessionID)
		if err != nil {
			slog.Error("draft delete failed", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, datatypes.NewErrorResponse("Could not delete draft"))
			return
		}
		c.JSON(http.StatusOK, datatypes.NewDraftResponse(sessionID, existed))
	}
}
