// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"strings"
)

// DefaultSep separates stage values in collapsed pipeline
// identifiers.
const DefaultSep = "->"

// A CollapseOption configures Collapse.
type CollapseOption func(*collapseConfig)

type collapseConfig struct {
	sep string
}

// Sep sets the separator joining stage values into a pipeline
// identifier.
func Sep(sep string) CollapseOption {
	return func(c *collapseConfig) {
		c.sep = sep
	}
}

// Collapse joins each row's stage values, in column order, into a
// single pipeline identifier column, dropping the individual stage
// columns. The dataset and result columns are retained and the row
// count is unchanged. Collapsing an already collapsed table returns
// it unchanged.
//
// Collapse is a display and grouping convenience; it computes nothing
// from results.
func Collapse(t *Table, opts ...CollapseOption) *Table {
	if t.collapsed {
		return t
	}
	cfg := collapseConfig{sep: DefaultSep}
	for _, opt := range opts {
		opt(&cfg)
	}

	stageCols := make([][]string, len(t.stages))
	for i, s := range t.stages {
		stageCols[i] = t.frame.Column(s).([]string)
	}

	pipeline := make([]string, t.Len())
	var sb strings.Builder
	for i := range pipeline {
		sb.Reset()
		for k, col := range stageCols {
			if k > 0 {
				sb.WriteString(cfg.sep)
			}
			sb.WriteString(col[i])
		}
		pipeline[i] = sb.String()
	}

	return newCollapsedTable(t.Data(), pipeline, t.Results())
}
