// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"pipeline", "n", "mean", "median", "min", "max", "geomean"}

// ToText renders r as an aligned fixed-width table, assuming a
// fixed-width font.
func (r *Report) ToText(w io.Writer) error {
	rows := r.rows()

	widths := make([]int, len(csvHeader))
	for i, h := range csvHeader {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) error {
		for i, cell := range cells {
			sep := "  "
			if i == len(cells)-1 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(w, "%-*s%s", widths[i], cell, sep); err != nil {
				return err
			}
		}
		return nil
	}

	if err := printRow(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := printRow(row); err != nil {
			return err
		}
	}
	for _, s := range r.Summaries {
		for _, warn := range s.Warnings {
			if _, err := fmt.Fprintf(w, "%s: %v\n", s.Pipeline, warn); err != nil {
				return err
			}
		}
	}
	return nil
}

// ToCSV renders r in CSV format. Warnings are written to a separate
// stream so as not to interrupt the regular format of the table.
func (r *Report) ToCSV(w, warnings io.Writer) error {
	o := csv.NewWriter(w)
	if err := o.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range r.rows() {
		if err := o.Write(row); err != nil {
			return err
		}
	}
	o.Flush()
	if err := o.Error(); err != nil {
		return err
	}
	for _, s := range r.Summaries {
		for _, warn := range s.Warnings {
			if _, err := fmt.Fprintf(warnings, "%s: %v\n", s.Pipeline, warn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Report) rows() [][]string {
	num := func(x float64) string {
		return strconv.FormatFloat(x, 'g', 6, 64)
	}
	rows := make([][]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		gm := ""
		if s.HasGeoMean {
			gm = num(s.GeoMean)
		}
		rows = append(rows, []string{
			s.Pipeline,
			strconv.Itoa(s.N),
			num(s.Mean),
			num(s.Median),
			num(s.Min),
			num(s.Max),
			gm,
		})
	}
	return rows
}
