// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the graphctl gateway client

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
)

func TestGatewayClient_ForwardsTokenAndTable(t *testing.T) {
	var gotToken, gotTable, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Databricks-Token")
		gotTable = r.URL.Query().Get("tableName")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(datatypes.GraphResponse{Success: true,
			Nodes: []graphmodel.Node{}, Edges: []graphmodel.Edge{}})
	}))
	defer server.Close()

	client := newGatewayClient(server.URL, "main.default.edges", "dapi-123")
	resp, err := client.FetchGraph(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "dapi-123", gotToken)
	assert.Equal(t, "main.default.edges", gotTable)
	assert.Equal(t, "/api/graph", gotPath)
}

func TestGatewayClient_NoTokenHeaderWhenEmpty(t *testing.T) {
	var hasHeader bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasHeader = r.Header["X-Databricks-Token"]
		_ = json.NewEncoder(w).Encode(datatypes.HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	_, err := newGatewayClient(server.URL, "", "").Health(context.Background())
	require.NoError(t, err)
	assert.False(t, hasHeader)
}

func TestGatewayClient_SurfacesSanitizedErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(datatypes.NewErrorResponse("Invalid table name."))
	}))
	defer server.Close()

	_, err := newGatewayClient(server.URL, "bad;table", "").FetchGraph(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid table name.")
	assert.Contains(t, err.Error(), "400")
}

func TestGatewayClient_DeleteEscapesIDs(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(datatypes.DeleteResponse{Success: true, Deleted: true, Target: "local"})
	}))
	defer server.Close()

	client := newGatewayClient(server.URL, "", "")
	resp, err := client.DeleteNode(context.Background(), "node/with slash")
	require.NoError(t, err)
	assert.True(t, resp.Deleted)
	assert.Equal(t, "/api/graph/node/node%2Fwith%20slash", gotPath)
}
