// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the graph gateway service.
//
// # Token Forwarding
//
// The gateway never requires authentication of its own. It forwards the
// caller's Databricks access token to the warehouse: the token travels in
// either the X-Databricks-Token header or a standard Authorization bearer
// header. A request without a token is still valid; the gateway then serves
// it from the local store exclusively (unless a server-side default token
// is configured).
//
//	Request
//	   │
//	   ▼
//	TokenMiddleware
//	   │
//	   ├─► X-Databricks-Token header, if present
//	   │
//	   ├─► else "Authorization: Bearer <token>"
//	   │
//	   └─► Store token in context (may be empty)
//	           │
//	           ▼
//	       Handler (retrieves via GetDatabricksToken)
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// databricksTokenKey is the context key for the forwarded access token.
// Using a prefixed key prevents collisions with other context values.
const databricksTokenKey = "aleutian_databricks_token"

// TokenHeader is the dedicated header the UI uses to forward the token.
const TokenHeader = "X-Databricks-Token"

// TokenMiddleware extracts the forwarded Databricks access token and
// stores it in the Gin context for downstream handlers. An absent token
// stores the empty string; handlers treat that as "local store only".
func TokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(databricksTokenKey, extractToken(c))
		c.Next()
	}
}

// GetDatabricksToken retrieves the forwarded token from the Gin context.
// Returns "" when the request carried no token.
func GetDatabricksToken(c *gin.Context) string {
	if v, exists := c.Get(databricksTokenKey); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

// extractToken checks the dedicated header first, then falls back to a
// standard bearer token. The "Bearer" prefix is case-insensitive per
// RFC 7235.
func extractToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
