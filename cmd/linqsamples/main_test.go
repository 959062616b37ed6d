package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/samples"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func jsonLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var rows []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var row map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &row), line)
		rows = append(rows, row)
	}
	return rows
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list", "--format", "json")
	require.NoError(t, err)
	rows := jsonLines(t, out)
	require.Len(t, rows, len(samples.Catalog))
	assert.Equal(t, "where-low-numbers", rows[0]["name"])

	out, _, err = execute(t, "list", "--category", "aggregation")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "Name=city-statistics")
}

func TestDescribe(t *testing.T) {
	out, _, err := execute(t, "describe", "products-by-cost-tier")
	require.NoError(t, err)
	assert.Contains(t, out, "Grouping: Groups products into Cheap, Medium and Expensive")

	_, _, err = execute(t, "describe", "no-such-sample")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestRun(t *testing.T) {
	out, stderr, err := execute(t, "run", "where-low-numbers", "--format", "json")
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"4", "1", "3", "2", "0"}, rows[2:])
	assert.Contains(t, stderr, "1/1 samples passed")

	_, _, err = execute(t, "run", "where-low-numbers", "--category", "Grouping")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestQuery(t *testing.T) {
	out, stderr, err := execute(t, "query", "--format", "json",
		"--entity", "suppliers", "--where", `country == "UK"`, "--order-by", "company_name", "--desc")
	require.NoError(t, err)
	rows := jsonLines(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "Thames Provisions", rows[0]["company_name"])
	assert.Contains(t, stderr, "3 suppliers")

	out, _, err = execute(t, "query", "--entity", "orders", "--fields")
	require.NoError(t, err)
	assert.Contains(t, out, "order_date")

	_, _, err = execute(t, "query", "--entity", "products", "--where", "units_in_stock")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "list", "--format", "yaml")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestRun_InvalidFormatRejectedBeforeRunning(t *testing.T) {
	out, _, err := execute(t, "run", "where-low-numbers", "--format", "yaml")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
	assert.Empty(t, out)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	rows := jsonLines(t, out)
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0]["version"])
}
