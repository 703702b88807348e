// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot renders benchmark reports as charts. All drawing
// is delegated to gonum.org/v1/plot.
package benchplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/bioc/CellBench/benchreport"
)

// Options configures Chart.
type Options struct {
	// Title is the chart title; empty means no title.
	Title string
	// YLabel labels the value axis.
	YLabel string
	// LogScale plots values on a log axis. All means must be
	// positive.
	LogScale bool
}

// Chart draws a bar chart of per-pipeline mean values from rep and
// writes it as name.png under pngDir, creating the directory if
// needed. It returns the path of the written file.
func Chart(rep *benchreport.Report, pngDir, name string, opts Options) (string, error) {
	if len(rep.Summaries) == 0 {
		return "", fmt.Errorf("empty report")
	}
	if pngDir != "" {
		if err := os.MkdirAll(pngDir, 0777); err != nil {
			return "", err
		}
	}

	values := make(plotter.Values, 0, len(rep.Summaries))
	var nominalX []string
	for _, s := range rep.Summaries {
		values = append(values, s.Mean)
		nominalX = append(nominalX, s.Pipeline)
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	pl.Y.Label.Text = opts.YLabel
	if opts.LogScale {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.NRGBA{0x33, 0x66, 0xCC, 0xFF}

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid, bars)
	pl.NominalX(nominalX...)

	pl.X.Tick.Label.Rotation = -math.Pi / 8
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	// Heuristic width so long pipeline labels keep room.
	width := 2.5 * float64(2+len(rep.Summaries))
	height := math.Max(width/2, 8)

	can := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(vg.Length(width)*vg.Centimeter, vg.Length(height)*vg.Centimeter),
		vgimg.UseDPI(150),
		vgimg.UseBackgroundColor(color.White))}
	pl.Draw(draw.New(can))

	file := filepath.Join(pngDir, name+".png")
	f, err := os.Create(file)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := can.WriteTo(f); err != nil {
		return "", err
	}
	return file, nil
}
