// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for table name and status validation

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTableName_AcceptsValidNames(t *testing.T) {
	valid := []string{
		"graph_edges",
		"default.graph_edges",
		"main.default.graph_edges",
		"`main`.`default`.`graph_edges`",
		"Catalog1.Schema2.Table3",
		"_private",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateTableName(name), "expected %q to be valid", name)
	}
}

func TestValidateTableName_RejectsInjection(t *testing.T) {
	invalid := []string{
		"",
		"main.default.tbl; DROP TABLE x",
		"tbl'--",
		"tbl OR 1=1",
		"a.b.c.d",
		"table name",
		"tbl;",
		"tbl/*comment*/",
		".leading",
		"trailing.",
	}
	for _, name := range invalid {
		assert.Error(t, ValidateTableName(name), "expected %q to be rejected", name)
	}
}

func TestSanitizeTableName_TrimsWhitespace(t *testing.T) {
	got, err := SanitizeTableName("  main.default.graph_edges \n")
	require.NoError(t, err)
	assert.Equal(t, "main.default.graph_edges", got)
}

func TestSanitizeTableName_RejectsAfterTrim(t *testing.T) {
	_, err := SanitizeTableName("  bad name  ")
	assert.Error(t, err)
}

func TestValidateStatus(t *testing.T) {
	assert.NoError(t, ValidateStatus("NEW"))
	assert.NoError(t, ValidateStatus("EXISTING"))
	assert.Error(t, ValidateStatus("new"))
	assert.Error(t, ValidateStatus("DELETED"))
	assert.Error(t, ValidateStatus(""))
}
