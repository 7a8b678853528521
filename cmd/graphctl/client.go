// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/datatypes"
)

// gatewayClient is a thin HTTP client for the graph gateway API.
type gatewayClient struct {
	baseURL string
	table   string
	token   string
	http    *http.Client
}

func newGatewayClient(server, table, token string) *gatewayClient {
	return &gatewayClient{
		baseURL: strings.TrimRight(server, "/"),
		table:   table,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// do issues one request and decodes the JSON response into out. Non-2xx
// responses are returned as errors carrying the gateway's sanitized
// error text when present.
func (c *gatewayClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Databricks-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway unreachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var errResp datatypes.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// tableQuery builds the ?tableName= suffix, if a table is set.
func (c *gatewayClient) tableQuery() string {
	if c.table == "" {
		return ""
	}
	return "?tableName=" + url.QueryEscape(c.table)
}

func (c *gatewayClient) Health(ctx context.Context) (datatypes.HealthResponse, error) {
	var resp datatypes.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}

func (c *gatewayClient) FetchGraph(ctx context.Context) (datatypes.GraphResponse, error) {
	var resp datatypes.GraphResponse
	err := c.do(ctx, http.MethodGet, "/api/graph"+c.tableQuery(), nil, &resp)
	return resp, err
}

func (c *gatewayClient) PushGraph(ctx context.Context, req datatypes.WriteRequest) (datatypes.WriteResponse, error) {
	var resp datatypes.WriteResponse
	err := c.do(ctx, http.MethodPost, "/api/graph"+c.tableQuery(), req, &resp)
	return resp, err
}

func (c *gatewayClient) DeleteNode(ctx context.Context, id string) (datatypes.DeleteResponse, error) {
	var resp datatypes.DeleteResponse
	err := c.do(ctx, http.MethodDelete, "/api/graph/node/"+url.PathEscape(id)+c.tableQuery(), nil, &resp)
	return resp, err
}

func (c *gatewayClient) DeleteEdge(ctx context.Context, id string) (datatypes.DeleteResponse, error) {
	var resp datatypes.DeleteResponse
	err := c.do(ctx, http.MethodDelete, "/api/graph/edge/"+url.PathEscape(id)+c.tableQuery(), nil, &resp)
	return resp, err
}
