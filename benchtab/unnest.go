// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"fmt"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Unnest flattens a table whose results are themselves go-gg tables
// into a single go-gg table. Each row's labeling columns (dataset
// name and stage or pipeline columns) are repeated once per row of
// its nested result, followed by the nested table's own columns.
//
// Every result must be a *table.Table and all of them must have the
// same columns in the same order; otherwise Unnest returns an error.
// A nested column may not share a name with a labeling column.
func Unnest(t *Table) (*table.Table, error) {
	n := t.Len()
	labels := t.Columns()
	labels = labels[:len(labels)-1] // drop ResultCol

	inners := make([]*table.Table, n)
	var innerCols []string
	results := t.Results()
	for i, r := range results {
		inner, ok := r.(*table.Table)
		if !ok {
			return nil, fmt.Errorf("result %d is %T, not *table.Table", i, r)
		}
		if i == 0 {
			innerCols = inner.Columns()
		} else if !sameStrings(innerCols, inner.Columns()) {
			return nil, &SchemaMismatchError{A: innerCols, B: inner.Columns()}
		}
		inners[i] = inner
	}
	for _, c := range innerCols {
		for _, l := range labels {
			if c == l {
				return nil, fmt.Errorf("nested column %q collides with labeling column %q", c, l)
			}
		}
	}

	total := 0
	for _, inner := range inners {
		total += inner.Len()
	}

	var b table.Builder
	for _, l := range labels {
		col := t.frame.Column(l).([]string)
		out := make([]string, 0, total)
		for i, inner := range inners {
			for r := 0; r < inner.Len(); r++ {
				out = append(out, col[i])
			}
		}
		b.Add(l, out)
	}
	for _, c := range innerCols {
		parts := make([]slice.T, 0, n)
		for _, inner := range inners {
			parts = append(parts, inner.Column(c))
		}
		b.Add(c, slice.Concat(parts...))
	}
	return b.Done(), nil
}
