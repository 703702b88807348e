// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport summarizes numeric benchmark tables by
// pipeline.
//
// Summarize groups a table's rows by collapsed pipeline identifier
// and computes sample statistics over the result values, which must
// be numeric. The resulting Report renders to fixed-width text, CSV,
// or HTML for inclusion in analysis documents.
package benchreport

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/bioc/CellBench/benchtab"
)

// A Summary holds the sample statistics of one pipeline across all
// datasets it was applied to.
type Summary struct {
	Pipeline string
	// N is the number of rows (dataset applications) summarized.
	N int

	Mean    float64
	Median  float64
	Min     float64
	Max     float64
	GeoMean float64

	// HasGeoMean reports whether GeoMean is defined; it is not
	// when any value is zero or negative.
	HasGeoMean bool

	// Warnings should be shown to the user alongside the
	// statistics. They do not prevent reporting.
	Warnings []error
}

// A Report is an ordered set of per-pipeline summaries. Pipelines
// appear in first-seen row order of the source table.
type Report struct {
	Summaries []*Summary
}

// Summarize groups t's rows by pipeline and computes statistics over
// the result values. t is collapsed first if it is not already (with
// the default separator); every result must be a float64 or an
// integer type, else Summarize returns an error naming the offending
// row.
func Summarize(t *benchtab.Table) (*Report, error) {
	c := benchtab.Collapse(t)
	pipelines := c.Pipelines()
	data := c.Data()
	results := c.Results()

	order := []string{}
	groups := make(map[string][]float64)
	for i, p := range pipelines {
		x, ok := toFloat(results[i])
		if !ok {
			return nil, fmt.Errorf("pipeline %q on dataset %q: non-numeric result %T", p, data[i], results[i])
		}
		if _, seen := groups[p]; !seen {
			order = append(order, p)
		}
		groups[p] = append(groups[p], x)
	}

	rep := &Report{}
	for _, p := range order {
		xs := groups[p]
		s := &Summary{Pipeline: p, N: len(xs)}
		sample := stats.Sample{Xs: xs}
		s.Mean = stats.Mean(xs)
		s.Median = sample.Quantile(0.5)
		s.Min, s.Max = stats.Bounds(xs)
		gm := stats.GeoMean(xs)
		if !math.IsNaN(gm) {
			s.GeoMean = gm
			s.HasGeoMean = true
		} else {
			s.Warnings = append(s.Warnings, fmt.Errorf("values must be >0 to compute geomean"))
		}
		rep.Summaries = append(rep.Summaries, s)
	}
	return rep, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
