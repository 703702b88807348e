// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtab records the combinatorial application of analysis
// methods to datasets.
//
// The central type is Table, an immutable benchmark table with one row
// per fully-specified pipeline applied to one named dataset. A user
// starts from a Datasets collection, turns it into a Table with
// NewTable (or ApplyDatasets), and then repeatedly calls ApplyMethods
// with successive Methods collections. Each call appends one labeling
// column (a "stage") and replaces the result column with the output of
// the chosen method on each row, expanding the table to the full
// cross product of rows and methods.
//
// Result values are opaque. They may be scalars, tables, or any other
// object; benchtab never operates on them except to pass them to the
// next stage's methods. Tables are backed by go-gg tables
// (github.com/aclements/go-gg/table), so generic filtering, mutation,
// and selection are available through Frame.
package benchtab

// A Method transforms the result value of one benchmark table row.
// Methods must be unary: they receive the prior result and return the
// new one. A Method that returns a non-nil error aborts the enclosing
// ApplyMethods call.
type Method func(v interface{}) (interface{}, error)

// Datasets is an ordered collection of named datasets. Names are
// unique; insertion order determines row order in the initial table.
//
// The zero value is not useful; use NewDatasets.
type Datasets struct {
	names  []string
	values map[string]interface{}
}

// NewDatasets returns an empty Datasets collection.
func NewDatasets() *Datasets {
	return &Datasets{values: make(map[string]interface{})}
}

// Add adds the named dataset and returns d for chaining. If the name
// is already present, Add replaces its value and keeps its position.
func (d *Datasets) Add(name string, value interface{}) *Datasets {
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
	return d
}

// Len returns the number of datasets in d.
func (d *Datasets) Len() int {
	return len(d.names)
}

// Names returns the dataset names in insertion order.
func (d *Datasets) Names() []string {
	return append([]string(nil), d.names...)
}

// Value returns the named dataset's value.
func (d *Datasets) Value(name string) (interface{}, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Methods is an ordered collection of named unary methods making up
// one pipeline stage. The stage name becomes the labeling column when
// the collection is applied; the method names become that column's
// values.
//
// The zero value is not useful; use NewMethods.
type Methods struct {
	stage string
	names []string
	fns   map[string]Method
}

// NewMethods returns an empty Methods collection for the named stage.
func NewMethods(stage string) *Methods {
	return &Methods{stage: stage, fns: make(map[string]Method)}
}

// Add adds the named method and returns m for chaining. If the name
// is already present, Add replaces its function and keeps its
// position.
func (m *Methods) Add(name string, fn Method) *Methods {
	if _, ok := m.fns[name]; !ok {
		m.names = append(m.names, name)
	}
	m.fns[name] = fn
	return m
}

// Stage returns the stage name m labels rows with.
func (m *Methods) Stage() string {
	return m.stage
}

// Len returns the number of methods in m.
func (m *Methods) Len() int {
	return len(m.names)
}

// Names returns the method names in insertion order.
func (m *Methods) Names() []string {
	return append([]string(nil), m.names...)
}

// Func returns the named method's function.
func (m *Methods) Func(name string) (Method, bool) {
	fn, ok := m.fns[name]
	return fn, ok
}
