// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioc/CellBench/benchreport"
	"github.com/bioc/CellBench/benchtab"
)

func TestChart(t *testing.T) {
	tab, err := benchtab.FromPipelines(
		[]string{"a", "b", "a", "b"},
		[]string{"norm->pca", "norm->pca", "raw->pca", "raw->pca"},
		[]interface{}{1.0, 2.0, 3.0, 4.0})
	require.NoError(t, err)
	rep, err := benchreport.Summarize(tab)
	require.NoError(t, err)

	dir := t.TempDir()
	file, err := Chart(rep, dir, "pipelines", Options{Title: "clustering", YLabel: "score"})
	require.NoError(t, err)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestChartEmptyReport(t *testing.T) {
	_, err := Chart(&benchreport.Report{}, t.TempDir(), "x", Options{})
	assert.Error(t, err)
}
