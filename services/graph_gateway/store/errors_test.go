// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the store error taxonomy and sanitizer

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClassify_StructuredErrorClasses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"table not found", errors.New("[TABLE_OR_VIEW_NOT_FOUND] The table or view `main`.`x` cannot be found"), KindResourceNotFound},
		{"schema not found", errors.New("[SCHEMA_NOT_FOUND] The schema `default` cannot be found"), KindResourceNotFound},
		{"sqlite missing table", errors.New("no such table: nodes"), KindResourceNotFound},
		{"parse error", errors.New("[PARSE_SYNTAX_ERROR] Syntax error at or near 'FRM'"), KindSyntaxError},
		{"generic syntax", errors.New("near \"SELEC\": syntax error"), KindSyntaxError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err).Kind)
		})
	}
}

func TestClassify_HTTPStatusContent(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{errors.New("request error: status code: 401"), KindAuthFailure},
		{errors.New("request error: status code: 403"), KindAuthFailure},
		{errors.New("endpoint returned 404"), KindResourceNotFound},
		{errors.New("server returned 503 service unavailable"), KindConnectionFailure},
		{errors.New("unexpected 500 from warehouse"), KindConnectionFailure},
		{errors.New("Unauthorized: invalid access token"), KindAuthFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err).Kind, "error %q", tt.err)
	}
}

func TestClassify_TransportFailures(t *testing.T) {
	assert.Equal(t, KindTimeout, Classify(context.DeadlineExceeded).Kind)
	assert.Equal(t, KindTimeout, Classify(errors.New("i/o timeout while reading")).Kind)
	assert.Equal(t, KindConnectionFailure, Classify(errors.New("dial tcp 10.0.0.1:443: connect: connection refused")).Kind)
	assert.Equal(t, KindConnectionFailure, Classify(errors.New("lookup dbc-abc.cloud.databricks.com: no such host")).Kind)
	assert.Equal(t, KindNotConfigured, Classify(errors.New("warehouse not configured for this workspace")).Kind)
}

func TestClassify_TaggedErrorPassesThrough(t *testing.T) {
	tagged := NewStoreError(KindAuthFailure, 401, "raw token rejection detail")
	wrapped := fmt.Errorf("primary fetch: %w", tagged)
	assert.Same(t, tagged, Classify(wrapped))
}

func TestSanitize_FixedMessagesPerKind(t *testing.T) {
	tests := []struct {
		err      error
		contains string
	}{
		{NewStoreError(KindAuthFailure, 401, "secret detail"), "access token"},
		{NewStoreError(KindNotConfigured, 0, "x"), "not configured"},
		{NewStoreError(KindConnectionFailure, 0, "x"), "Could not reach"},
		{NewStoreError(KindTimeout, 0, "x"), "timed out"},
		{NewStoreError(KindResourceNotFound, 0, "x"), "not found"},
		{NewStoreError(KindSyntaxError, 0, "x"), "rejected"},
	}
	for _, tt := range tests {
		got := Sanitize(tt.err)
		assert.Contains(t, got, tt.contains)
		assert.NotContains(t, got, "secret")
	}
}

func TestSanitize_UnknownTruncatesFirstLine(t *testing.T) {
	long := strings.Repeat("x", 400) + "\nstack frame 1\nstack frame 2"
	got := Sanitize(errors.New(long))

	assert.LessOrEqual(t, len(got), 150)
	assert.NotContains(t, got, "stack frame")
	assert.NotContains(t, got, "\n")
}

func TestSanitize_TruncatesOnRuneBoundary(t *testing.T) {
	// 149 ASCII bytes followed by a three-byte rune: a byte-level cut at
	// 150 would land mid-rune and emit invalid UTF-8.
	long := strings.Repeat("x", 149) + strings.Repeat("편", 20)
	got := Sanitize(errors.New(long))

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 150)
	assert.Equal(t, strings.Repeat("x", 149), got)
}

func TestSanitize_NeverLeaksMultilineDiagnostics(t *testing.T) {
	raw := errors.New("driver blew up\n\tat query.go:42\n\tat conn.go:17")
	got := Sanitize(raw)
	assert.Equal(t, "driver blew up", got)
}

func TestSanitize_NilIsEmpty(t *testing.T) {
	assert.Equal(t, "", Sanitize(nil))
}
