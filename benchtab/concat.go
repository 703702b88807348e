// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"github.com/aclements/go-gg/table"
)

// Concat appends b's rows after a's. Both tables must have the same
// stage columns in the same order (or both be collapsed); otherwise
// Concat returns a *SchemaMismatchError. Rows are not deduplicated
// and no results are recomputed, so a new method can be added to an
// existing stage by applying only the new method and concatenating.
func Concat(a, b *Table) (*Table, error) {
	if a.collapsed != b.collapsed || !sameStrings(a.stages, b.stages) {
		return nil, &SchemaMismatchError{A: a.Columns(), B: b.Columns()}
	}
	g := table.Concat(a.frame, b.frame)
	nt := &Table{
		frame:     g.Table(table.RootGroupID),
		stages:    a.Stages(),
		collapsed: a.collapsed,
	}
	if nt.frame == nil {
		// Both inputs were empty.
		nt.frame = new(table.Table)
	}
	return nt, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
