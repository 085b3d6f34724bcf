package main

import (
	"encoding/json"
	"fmt"
	"io"

	"anaviz/domain/analysis"
	"anaviz/internal/report"

	"github.com/jedib0t/go-pretty/v6/table"
)

func renderResult(w io.Writer, r analysis.Result, format string) error {
	switch format {
	case "json":
		return renderJSON(w, r)
	case "table", "":
		return renderTable(w, r)
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func renderJSON(w io.Writer, r analysis.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderTable(w io.Writer, r analysis.Result) error {
	header, rows, ok := report.Tabulate(r)
	if !ok {
		return renderJSON(w, r)
	}

	_, _ = fmt.Fprintln(w, r.Title)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}
