// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"fmt"

	"github.com/aclements/go-gg/table"
)

// Column names reserved by benchtab. Stage names must not collide
// with these.
const (
	// DataCol holds the originating dataset name of each row.
	DataCol = "data"
	// ResultCol holds each row's opaque result value.
	ResultCol = "result"
	// PipelineCol holds the collapsed pipeline identifier produced
	// by Collapse.
	PipelineCol = "pipeline"
)

// A Table is an immutable benchmark table. Each row records one
// dataset name, the method chosen at each applied stage, and the
// current result value. Columns are ordered: DataCol first, stage
// columns in application order, ResultCol last. A collapsed Table
// (see Collapse) has a single PipelineCol in place of its stage
// columns.
//
// Operations never mutate a Table; they return new ones.
type Table struct {
	frame     *table.Table
	stages    []string
	collapsed bool
}

// NewTable returns the initial benchmark table for d: one row per
// dataset, no stage columns, each result the dataset's value.
func NewTable(d *Datasets) *Table {
	data := make([]string, 0, d.Len())
	results := make([]interface{}, 0, d.Len())
	for _, name := range d.names {
		data = append(data, name)
		results = append(results, d.values[name])
	}
	return newTable(data, nil, nil, results)
}

// newTable assembles a Table from raw columns. stageCols[i] is the
// column for stages[i]. Columns are normalized to non-nil slices;
// table.Builder.Add treats nil as column removal.
func newTable(data []string, stages []string, stageCols [][]string, results []interface{}) *Table {
	var b table.Builder
	b.Add(DataCol, notNilStr(data))
	for i, stage := range stages {
		b.Add(stage, notNilStr(stageCols[i]))
	}
	b.Add(ResultCol, notNilIface(results))
	return &Table{
		frame:  b.Done(),
		stages: append([]string(nil), stages...),
	}
}

// newCollapsedTable assembles a collapsed Table from raw columns.
func newCollapsedTable(data, pipeline []string, results []interface{}) *Table {
	var b table.Builder
	b.Add(DataCol, notNilStr(data))
	b.Add(PipelineCol, notNilStr(pipeline))
	b.Add(ResultCol, notNilIface(results))
	return &Table{frame: b.Done(), collapsed: true}
}

func notNilStr(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func notNilIface(s []interface{}) []interface{} {
	if s == nil {
		return []interface{}{}
	}
	return s
}

// FromPipelines reconstructs a collapsed Table from parallel data,
// pipeline, and result columns. All three slices must have the same
// length. This is intended for loading previously recorded runs; new
// tables are normally built with NewTable and ApplyMethods.
func FromPipelines(data, pipelines []string, results []interface{}) (*Table, error) {
	if len(data) != len(pipelines) || len(data) != len(results) {
		return nil, fmt.Errorf("mismatched column lengths %d, %d, %d", len(data), len(pipelines), len(results))
	}
	return newCollapsedTable(data, pipelines, results), nil
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return t.frame.Len()
}

// Collapsed reports whether t's stage columns have been collapsed
// into a single pipeline column.
func (t *Table) Collapsed() bool {
	return t.collapsed
}

// Columns returns t's column names in order.
func (t *Table) Columns() []string {
	return t.frame.Columns()
}

// Stages returns the stage column names in application order. It is
// nil for an initial or collapsed table.
func (t *Table) Stages() []string {
	return append([]string(nil), t.stages...)
}

// Data returns the dataset name column.
func (t *Table) Data() []string {
	return t.frame.Column(DataCol).([]string)
}

// Results returns the result column. Entries are the opaque values
// produced by the most recent stage.
func (t *Table) Results() []interface{} {
	return t.frame.Column(ResultCol).([]interface{})
}

// Stage returns the labeling column for the named stage, or nil if t
// has no such stage.
func (t *Table) Stage(name string) []string {
	for _, s := range t.stages {
		if s == name {
			return t.frame.Column(name).([]string)
		}
	}
	return nil
}

// Pipelines returns the pipeline column of a collapsed table, or nil
// if t is not collapsed.
func (t *Table) Pipelines() []string {
	if !t.collapsed {
		return nil
	}
	return t.frame.Column(PipelineCol).([]string)
}

// Frame returns the go-gg table backing t. The frame shares t's
// column slices; treat it as read-only. It can be fed to generic
// go-gg operations such as table.Filter, table.MapTables, and
// table.GroupBy.
func (t *Table) Frame() *table.Table {
	return t.frame
}

// hasStage reports whether name is already a column of t, including
// the reserved columns.
func (t *Table) hasStage(name string) bool {
	if name == DataCol || name == ResultCol {
		return true
	}
	if t.collapsed && name == PipelineCol {
		return true
	}
	for _, s := range t.stages {
		if s == name {
			return true
		}
	}
	return false
}
