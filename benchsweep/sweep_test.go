// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchsweep

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type scaleParams struct {
	Y int
	Z int
}

// scale is the base function under sweep: x + 10y + 100z, so each
// combination's contribution is visible in the output.
func scale(v interface{}, p scaleParams) (interface{}, error) {
	return v.(int) + 10*p.Y + 100*p.Z, nil
}

func TestSweepCrossProduct(t *testing.T) {
	m, err := New("scale", scale,
		Seq{Name: "Y", Values: []interface{}{1, 2}},
		Seq{Name: "Z", Values: []interface{}{3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := m.Len(), 4; got != want {
		t.Fatalf("got %d methods, want %d", got, want)
	}
	want := []string{"Y_1_Z_3", "Y_1_Z_4", "Y_2_Z_3", "Y_2_Z_4"}
	if diff := cmp.Diff(want, m.Names()); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
	if got, want := m.Stage(), "scale"; got != want {
		t.Errorf("got stage %q, want %q", got, want)
	}
}

func TestSweepBinding(t *testing.T) {
	m, err := New("scale", scale,
		Seq{Name: "Y", Values: []interface{}{1, 2}},
		Seq{Name: "Z", Values: []interface{}{3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		label string
		y, z  int
	}{
		{"Y_1_Z_3", 1, 3},
		{"Y_1_Z_4", 1, 4},
		{"Y_2_Z_3", 2, 3},
		{"Y_2_Z_4", 2, 4},
	} {
		fn, ok := m.Func(tc.label)
		if !ok {
			t.Fatalf("missing method %q", tc.label)
		}
		got, err := fn(1)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := scale(1, scaleParams{Y: tc.y, Z: tc.z})
		if got != want {
			t.Errorf("%s(1) = %v, want %v", tc.label, got, want)
		}
	}
}

func TestSweepUnknownParam(t *testing.T) {
	_, err := New("scale", scale, Seq{Name: "W", Values: []interface{}{1}})
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
	if argErr.Name != "W" {
		t.Errorf("got name %q, want %q", argErr.Name, "W")
	}
}

func TestSweepBadValue(t *testing.T) {
	_, err := New("scale", scale, Seq{Name: "Y", Values: []interface{}{"one"}})
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("got %v, want ArgumentError", err)
	}
}

func TestSweepBadShape(t *testing.T) {
	for _, fn := range []interface{}{
		42,
		func() {},
		func(v interface{}, p scaleParams) interface{} { return nil },
		func(v int, p scaleParams) (interface{}, error) { return nil, nil },
	} {
		if _, err := New("s", fn, Seq{Name: "Y", Values: []interface{}{1}}); err == nil {
			t.Errorf("no error for %T", fn)
		}
	}
}

func TestSweepEmptySeq(t *testing.T) {
	if _, err := New("scale", scale); err == nil {
		t.Error("no error for missing sequences")
	}
	if _, err := New("scale", scale, Seq{Name: "Y"}); err == nil {
		t.Error("no error for empty value sequence")
	}
}
