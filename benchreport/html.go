// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"bytes"
	"html/template"
	"strconv"
)

var htmlTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"fmtFloat": func(x float64) string {
		return strconv.FormatFloat(x, 'g', 6, 64)
	},
}).Parse(`
<table class='cellbench'>
<tbody>
<tr><th>pipeline<th>n<th>mean<th>median<th>min<th>max<th>geomean
{{range .Summaries -}}
<tr><td>{{.Pipeline}}<td>{{.N}}<td>{{fmtFloat .Mean}}<td>{{fmtFloat .Median}}<td>{{fmtFloat .Min}}<td>{{fmtFloat .Max}}<td>{{if .HasGeoMean}}{{fmtFloat .GeoMean}}{{end}}
{{end -}}
</tbody>
</table>
`))

// FormatHTML appends an HTML formatting of the report to buf.
func (r *Report) FormatHTML(buf *bytes.Buffer) {
	err := htmlTemplate.Execute(buf, r)
	if err != nil {
		// Only possible errors here are template not matching data
		// structure. Don't make the caller check - it's our fault.
		panic(err)
	}
}
