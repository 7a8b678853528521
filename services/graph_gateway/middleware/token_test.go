// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for forwarded-token extraction

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runTokenProbe(t *testing.T, headers map[string]string) string {
	t.Helper()
	var got string
	router := gin.New()
	router.Use(TokenMiddleware())
	router.GET("/probe", func(c *gin.Context) {
		got = GetDatabricksToken(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestTokenMiddleware_DedicatedHeader(t *testing.T) {
	got := runTokenProbe(t, map[string]string{TokenHeader: "dapi-abc123"})
	assert.Equal(t, "dapi-abc123", got)
}

func TestTokenMiddleware_BearerFallback(t *testing.T) {
	got := runTokenProbe(t, map[string]string{"Authorization": "Bearer dapi-xyz"})
	assert.Equal(t, "dapi-xyz", got)

	got = runTokenProbe(t, map[string]string{"Authorization": "bearer dapi-lower"})
	assert.Equal(t, "dapi-lower", got)
}

func TestTokenMiddleware_DedicatedHeaderWins(t *testing.T) {
	got := runTokenProbe(t, map[string]string{
		TokenHeader:     "dedicated",
		"Authorization": "Bearer other",
	})
	assert.Equal(t, "dedicated", got)
}

func TestTokenMiddleware_AbsentOrMalformed(t *testing.T) {
	assert.Equal(t, "", runTokenProbe(t, nil))
	assert.Equal(t, "", runTokenProbe(t, map[string]string{"Authorization": "Basic dXNlcg=="}))
	assert.Equal(t, "", runTokenProbe(t, map[string]string{"Authorization": "Bearer"}))
}
