// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for gateway request/response envelopes

package datatypes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGraph/pkg/graphmodel"
	"github.com/AleutianAI/AleutianGraph/services/graph_gateway/store"
)

func TestStatusUpdateRequest_Validate(t *testing.T) {
	valid := StatusUpdateRequest{NodeIDs: []string{"n1"}, Status: "EXISTING"}
	assert.NoError(t, valid.Validate())

	missing := StatusUpdateRequest{NodeIDs: []string{"n1"}}
	assert.Error(t, missing.Validate())

	bogus := StatusUpdateRequest{NodeIDs: []string{"n1"}, Status: "PENDING"}
	assert.Error(t, bogus.Validate())
}

func TestWriteRequest_Empty(t *testing.T) {
	assert.True(t, (&WriteRequest{}).Empty())
	assert.False(t, (&WriteRequest{Nodes: []graphmodel.Node{{ID: "n1"}}}).Empty())
}

func TestNewGraphResponse_NeverNullArrays(t *testing.T) {
	resp := NewGraphResponse(graphmodel.GraphView{}, Metadata{Source: "fallback"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes":[]`)
	assert.Contains(t, string(data), `"edges":[]`)
}

func TestNewMetadata(t *testing.T) {
	ts := time.Now()
	meta := NewMetadata(store.Provenance{
		Source:            store.SourceFallback,
		DatabricksEnabled: true,
		DatabricksError:   "Could not reach the Databricks warehouse.",
		Timestamp:         ts,
		Duration:          1500 * time.Millisecond,
	})

	assert.Equal(t, "fallback", meta.Source)
	assert.True(t, meta.DatabricksEnabled)
	assert.Equal(t, ts.UnixMilli(), meta.Timestamp)
	assert.Equal(t, int64(1500), meta.DurationMs)
}
