// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// database queries. Table names are the one input that cannot be bound as a
// statement parameter and must be interpolated into SQL text, so they are
// held to a strict allow-list before any query is built.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// tableNamePattern matches a warehouse table reference of one to three
// dot-separated parts (table, schema.table, or catalog.schema.table).
// Allows: letters, digits, underscores, and backticks for quoted parts.
var tableNamePattern = regexp.MustCompile("^[a-zA-Z0-9_`]+(\\.[a-zA-Z0-9_`]+){0,2}$")

// statusPattern matches the two item status values persisted locally.
var statusPattern = regexp.MustCompile(`^(NEW|EXISTING)$`)

// ValidateTableName validates a table reference to prevent SQL injection.
//
// Valid names:
//   - 1-3 dot-separated parts (catalog.schema.table at most)
//   - Each part: letters, digits, underscores, backticks
//
// Anything else (spaces, semicolons, quotes, comments) is rejected before
// the name ever reaches a query string.
//
// Example:
//
//	if err := validation.ValidateTableName(table); err != nil {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	    return
//	}
//	// Safe to interpolate into a query
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}

	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %q (must be 1-3 dot-separated parts of letters, digits, underscores, or backticks)", name)
	}

	return nil
}

// SanitizeTableName trims whitespace and validates the result.
// Returns the cleaned name if valid, or an error if invalid.
func SanitizeTableName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateTableName(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidateStatus validates an item status string (NEW or EXISTING).
// Status values end up in UPDATE statements against the local store, so
// the same allow-list discipline applies even though they are bound as
// parameters.
func ValidateStatus(status string) error {
	if !statusPattern.MatchString(status) {
		return fmt.Errorf("invalid status: %q (must be NEW or EXISTING)", status)
	}
	return nil
}
