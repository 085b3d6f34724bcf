// Package report renders a batch of analysis results as one markdown document,
// optionally converted to HTML.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"anaviz/domain/analysis"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// SeriesPreviewRows is how many projected rows a chart section lists
const SeriesPreviewRows = 10

// Markdown writes one section per result, in order
func Markdown(name string, results []analysis.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis report: %s\n\n", escapeText(name))
	fmt.Fprintf(&b, "%d sections\n\n", len(results))

	for _, r := range results {
		fmt.Fprintf(&b, "## %s\n\n", r.Title)
		writeData(&b, r)
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders markdown produced by Markdown as an HTML fragment. Raw HTML in
// the input is dropped and links are limited to safe protocols.
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return markdown.ToHTML([]byte(md), p, r)
}

func writeData(b *strings.Builder, r analysis.Result) {
	if m, ok := r.Data.(analysis.CorrelationMatrix); ok && m.Size() == 0 {
		b.WriteString("_No numeric columns._\n")
		return
	}

	header, rows, ok := Tabulate(r)
	if !ok {
		b.WriteString("_No renderable data._\n")
		return
	}

	if series, isSeries := r.Data.([]analysis.SeriesRow); isSeries {
		fmt.Fprintf(b, "%d points (x: %s, y: %s", len(series), escapeText(r.XKey), escapeText(r.YKey))
		if r.ValueKey != "" {
			fmt.Fprintf(b, ", value: %s", escapeText(r.ValueKey))
		}
		b.WriteString(")\n\n")
		if len(rows) == 0 {
			return
		}
		if len(rows) > SeriesPreviewRows {
			rows = rows[:SeriesPreviewRows]
		}
	}

	writeTable(b, header, rows)
}

// Tabulate flattens a result into a header and string rows. It reports false
// when the result carries data of an unknown shape.
func Tabulate(r analysis.Result) ([]string, [][]string, bool) {
	switch data := r.Data.(type) {
	case analysis.Summary:
		header, rows := tabulateSummary(data)
		return header, rows, true
	case analysis.CorrelationMatrix:
		header, rows := tabulateCorrelation(data)
		return header, rows, true
	case analysis.MissingReport:
		rows := make([][]string, len(data))
		for i, rec := range data {
			rows[i] = []string{rec.Column, strconv.Itoa(rec.MissingCount), formatNumber(rec.Percentage) + "%"}
		}
		return []string{"Column", "Missing Values", "Percentage"}, rows, true
	case analysis.OutlierReport:
		rows := make([][]string, len(data))
		for i, rec := range data {
			rows[i] = []string{rec.Column, strconv.Itoa(rec.OutlierCount)}
		}
		return []string{"Column", "Outlier Count"}, rows, true
	case []analysis.SeriesRow:
		header, rows := tabulateSeries(data)
		return header, rows, true
	default:
		return nil, nil, false
	}
}

func tabulateSummary(s analysis.Summary) ([]string, [][]string) {
	header := []string{"Column", "Count", "Unique", "Mean", "Std", "Min", "Max"}
	rows := make([][]string, 0, len(s))
	for _, cs := range s {
		row := []string{cs.Column, strconv.Itoa(cs.Record.NonEmpty()), strconv.Itoa(cs.Record.Distinct())}
		if n, ok := cs.Record.(analysis.NumericSummary); ok {
			row = append(row, formatNumber(n.Mean), formatNumber(n.Std), formatNumber(n.Min), formatNumber(n.Max))
		} else {
			row = append(row, "", "", "", "")
		}
		rows = append(rows, row)
	}
	return header, rows
}

func tabulateCorrelation(m analysis.CorrelationMatrix) ([]string, [][]string) {
	columns := m.Columns()
	header := append([]string{""}, columns...)
	rows := make([][]string, len(columns))
	for i, c := range columns {
		row := []string{c}
		for j := range columns {
			row = append(row, formatNumber(m.At(i, j)))
		}
		rows[i] = row
	}
	return header, rows
}

// tabulateSeries uses the keys of the first row as the header
func tabulateSeries(series []analysis.SeriesRow) ([]string, [][]string) {
	if len(series) == 0 {
		return nil, nil
	}

	header := series[0].Keys()
	rows := make([][]string, len(series))
	for i, sr := range series {
		row := make([]string, len(header))
		for j, key := range header {
			if v, ok := sr.Get(key); ok {
				row[j] = v.String()
			}
		}
		rows[i] = row
	}
	return header, rows
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString("_No columns._\n")
		return
	}

	writeRow(b, header)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
	for _, row := range rows {
		writeRow(b, row)
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(escapeText(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// markdownEscaper backslash-escapes dataset text so headers and cells render as
// literal text: no table breaks, inline HTML, links or code spans.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
	"\r", " ",
	"\n", " ",
)

func escapeText(s string) string {
	return markdownEscaper.Replace(s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
