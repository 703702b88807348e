// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollapse(t *testing.T) {
	tab, err := ApplyDatasets(strData("a", "b"), tagStage("s1", "x"))
	if err != nil {
		t.Fatal(err)
	}
	tab, err = ApplyMethods(tab, tagStage("s2", "u", "v"))
	if err != nil {
		t.Fatal(err)
	}

	c := Collapse(tab)
	if c.Len() != tab.Len() {
		t.Fatalf("row count changed: %d != %d", c.Len(), tab.Len())
	}
	if diff := cmp.Diff([]string{"data", "pipeline", "result"}, c.Columns()); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	want := []string{"x->u", "x->v", "x->u", "x->v"}
	if diff := cmp.Diff(want, c.Pipelines()); diff != "" {
		t.Errorf("pipelines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tab.Data(), c.Data()); diff != "" {
		t.Errorf("data changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tab.Results(), c.Results()); diff != "" {
		t.Errorf("results changed (-want +got):\n%s", diff)
	}

	// Collapsing again is the identity.
	if Collapse(c) != c {
		t.Error("collapse of collapsed table is not the identity")
	}
}

func TestCollapseSep(t *testing.T) {
	tab, err := ApplyDatasets(strData("a"), tagStage("s1", "x"))
	if err != nil {
		t.Fatal(err)
	}
	tab, err = ApplyMethods(tab, tagStage("s2", "u"))
	if err != nil {
		t.Fatal(err)
	}
	c := Collapse(tab, Sep("/"))
	if got, want := c.Pipelines()[0], "x/u"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFromPipelines(t *testing.T) {
	tab, err := FromPipelines(
		[]string{"a", "b"},
		[]string{"x->u", "x->u"},
		[]interface{}{1.0, 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if !tab.Collapsed() || tab.Len() != 2 {
		t.Fatalf("bad table: collapsed=%v len=%d", tab.Collapsed(), tab.Len())
	}

	if _, err := FromPipelines([]string{"a"}, nil, nil); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
