// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/google/go-cmp/cmp"
)

// metrics builds a small two-column go-gg table of per-cell scores.
func metrics(cells []string, scores []float64) *table.Table {
	var b table.Builder
	b.Add("cell", cells)
	b.Add("score", scores)
	return b.Done()
}

func TestUnnest(t *testing.T) {
	d := NewDatasets().
		Add("a", metrics([]string{"c1", "c2"}, []float64{0.1, 0.2})).
		Add("b", metrics([]string{"c3"}, []float64{0.3}))
	m := NewMethods("m").Add("id", func(v interface{}) (interface{}, error) {
		return v, nil
	})
	tab, err := ApplyDatasets(d, m)
	if err != nil {
		t.Fatal(err)
	}

	flat, err := Unnest(tab)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := flat.Len(), 3; got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}
	if diff := cmp.Diff([]string{"data", "m", "cell", "score"}, flat.Columns()); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "a", "b"}, flat.Column("data").([]string)); diff != "" {
		t.Errorf("data repetition (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.1, 0.2, 0.3}, flat.Column("score").([]float64)); diff != "" {
		t.Errorf("scores (-want +got):\n%s", diff)
	}
}

func TestUnnestErrors(t *testing.T) {
	// Non-table result.
	tab, err := ApplyDatasets(strData("a"), tagStage("m", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unnest(tab); err == nil {
		t.Fatal("expected error for non-table results")
	}

	// Mismatched nested schemas.
	d := NewDatasets().
		Add("a", metrics([]string{"c1"}, []float64{1})).
		Add("b", func() *table.Table {
			var b table.Builder
			b.Add("other", []string{"c2"})
			return b.Done()
		}())
	id := NewMethods("m").Add("id", func(v interface{}) (interface{}, error) {
		return v, nil
	})
	tab2, err := ApplyDatasets(d, id)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unnest(tab2); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
