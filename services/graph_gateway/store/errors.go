// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store implements the dual-backend persistence layer of the graph
// gateway: a Databricks SQL warehouse as the primary store, a local SQLite
// database as the durable fallback, and a Gateway that routes each
// operation between them.
//
// # Error Model
//
// Store failures are represented as *StoreError, a tagged error carrying a
// closed ErrorKind taxonomy plus the raw diagnostic message. The raw
// message is for server-side logs only; Sanitize maps any error to a short
// client-safe string, so no stack trace or SQL text ever reaches a caller.
//
// # Thread Safety
//
// LocalStore and Gateway are safe for concurrent use. A DatabricksStore is
// cheap request-scoped state (config + token) and opens a fresh connection
// per operation.
package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrorKind is the closed taxonomy of client-visible failure classes.
type ErrorKind string

const (
	KindAuthFailure       ErrorKind = "auth_failure"
	KindNotConfigured     ErrorKind = "not_configured"
	KindConnectionFailure ErrorKind = "connection_failure"
	KindTimeout           ErrorKind = "timeout"
	KindResourceNotFound  ErrorKind = "resource_not_found"
	KindSyntaxError       ErrorKind = "syntax_error"
	KindUnknown           ErrorKind = "unknown"
)

// StoreError tags a store failure with its taxonomy kind. The message is
// the raw diagnostic text and must never be sent to a client; use
// Sanitize for that.
type StoreError struct {
	Kind       ErrorKind
	StatusCode int // HTTP-like status when known, 0 otherwise
	message    string
}

func (e *StoreError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.message)
}

// NewStoreError builds a tagged store error.
func NewStoreError(kind ErrorKind, statusCode int, format string, args ...any) *StoreError {
	return &StoreError{Kind: kind, StatusCode: statusCode, message: fmt.Sprintf(format, args...)}
}

// ErrRemoteNotConfigured is returned when a primary-store operation is
// requested but no warehouse host/path/token is available.
var ErrRemoteNotConfigured = NewStoreError(KindNotConfigured, 0, "databricks warehouse is not configured")

// maxSanitizedLen caps the fallback sanitized message length.
const maxSanitizedLen = 150

// statusCodeRe finds an HTTP-ish status code embedded in an error message.
var statusCodeRe = regexp.MustCompile(`\b(401|403|404|500|503)\b`)

// Classify maps an arbitrary error onto the closed taxonomy. Already
// tagged errors pass through unchanged. The priority order is: structured
// error-class codes, HTTP-status-like content, well-known message
// substrings, then Unknown.
func Classify(err error) *StoreError {
	if err == nil {
		return nil
	}

	var se *StoreError
	if errors.As(err, &se) {
		return se
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	// 1. Structured error-class codes surfaced by the warehouse driver.
	switch {
	case strings.Contains(msg, "TABLE_OR_VIEW_NOT_FOUND"),
		strings.Contains(msg, "SCHEMA_NOT_FOUND"),
		strings.Contains(msg, "CATALOG_NOT_FOUND"),
		strings.Contains(lower, "no such table"):
		return &StoreError{Kind: KindResourceNotFound, message: msg}
	case strings.Contains(msg, "PARSE_SYNTAX_ERROR"),
		strings.Contains(lower, "syntax error"):
		return &StoreError{Kind: KindSyntaxError, message: msg}
	}

	// 2. HTTP-status-like content.
	if m := statusCodeRe.FindString(msg); m != "" {
		switch m {
		case "401", "403":
			return &StoreError{Kind: KindAuthFailure, StatusCode: atoiStatus(m), message: msg}
		case "404":
			return &StoreError{Kind: KindResourceNotFound, StatusCode: 404, message: msg}
		case "500", "503":
			return &StoreError{Kind: KindConnectionFailure, StatusCode: atoiStatus(m), message: msg}
		}
	}
	if strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "invalid access token") {
		return &StoreError{Kind: KindAuthFailure, message: msg}
	}

	// 3. Well-known transport failures.
	if errors.Is(err, context.DeadlineExceeded) {
		return &StoreError{Kind: KindTimeout, message: msg}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &StoreError{Kind: KindTimeout, message: msg}
	}
	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return &StoreError{Kind: KindTimeout, message: msg}
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection reset"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "broken pipe"):
		return &StoreError{Kind: KindConnectionFailure, message: msg}
	case strings.Contains(lower, "not configured"):
		return &StoreError{Kind: KindNotConfigured, message: msg}
	}

	return &StoreError{Kind: KindUnknown, message: msg}
}

// Sanitize maps any store error to the only text ever sent to a caller.
// Fixed messages per taxonomy kind; unknown errors degrade to the first
// line of the raw message, truncated to 150 characters.
func Sanitize(err error) string {
	if err == nil {
		return ""
	}
	se := Classify(err)
	switch se.Kind {
	case KindAuthFailure:
		return "Authentication with the Databricks warehouse failed. Check the access token."
	case KindNotConfigured:
		return "The Databricks warehouse is not configured."
	case KindConnectionFailure:
		return "Could not reach the Databricks warehouse."
	case KindTimeout:
		return "The Databricks warehouse request timed out."
	case KindResourceNotFound:
		return "The requested table or schema was not found."
	case KindSyntaxError:
		return "The warehouse rejected the generated query."
	default:
		return firstLineTruncated(se.message, maxSanitizedLen)
	}
}

func firstLineTruncated(msg string, limit int) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if len(msg) > limit {
		// Cut on a rune boundary so the client never sees invalid UTF-8.
		cut := limit
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}

func atoiStatus(s string) int {
	// statusCodeRe only matches three-digit codes, so this cannot fail.
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
