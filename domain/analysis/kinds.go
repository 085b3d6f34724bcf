package analysis

import "strings"

// AnalysisKind names one of the fixed statistical views.
type AnalysisKind string

const (
	KindSummary     AnalysisKind = "summary"
	KindCorrelation AnalysisKind = "correlation"
	KindMissing     AnalysisKind = "missing"
	KindOutliers    AnalysisKind = "outliers"
)

// VisualizationKind names one of the fixed chart projections.
type VisualizationKind string

const (
	KindBarChart    VisualizationKind = "bar-chart"
	KindLineGraph   VisualizationKind = "line-graph"
	KindScatterPlot VisualizationKind = "scatter-plot"
	KindHeatmap     VisualizationKind = "heatmap"
)

// Option describes a selectable kind for presentation layers.
type Option struct {
	Label      string `json:"label"`
	Value      string `json:"value"`
	Title      string `json:"title"`
	ResultType string `json:"resultType"`
}

// AnalysisOptions lists the statistical views in presentation order.
var AnalysisOptions = []Option{
	{Label: "Statistical Summary", Value: string(KindSummary), Title: "Statistical Summary", ResultType: "table"},
	{Label: "Correlation Matrix", Value: string(KindCorrelation), Title: "Correlation Matrix", ResultType: "correlation_heatmap"},
	{Label: "Missing Data Overview", Value: string(KindMissing), Title: "Missing Data Overview", ResultType: "missing_data"},
	{Label: "Outlier Detection", Value: string(KindOutliers), Title: "Outlier Detection", ResultType: "outlier_table"},
}

// VisualizationOptions lists the chart projections in presentation order.
var VisualizationOptions = []Option{
	{Label: "Bar Chart", Value: string(KindBarChart), Title: "Bar Chart", ResultType: "bar_chart"},
	{Label: "Line Graph", Value: string(KindLineGraph), Title: "Line Graph", ResultType: "line_graph"},
	{Label: "Scatter Plot", Value: string(KindScatterPlot), Title: "Scatter Plot", ResultType: "scatter_plot"},
	{Label: "Heatmap", Value: string(KindHeatmap), Title: "Heatmap", ResultType: "custom_heatmap"},
}

// legacy analysis type names still sent by older clients
var analysisAliases = map[string]AnalysisKind{
	"statistical_summary":   KindSummary,
	"statistical-summary":   KindSummary,
	"correlation_matrix":    KindCorrelation,
	"correlation-matrix":    KindCorrelation,
	"missing_data_overview": KindMissing,
	"missing-data-overview": KindMissing,
	"outlier_detection":     KindOutliers,
	"outlier-detection":     KindOutliers,
}

// ParseAnalysisKind resolves a canonical or legacy analysis name.
func ParseAnalysisKind(s string) (AnalysisKind, bool) {
	s = strings.TrimSpace(s)
	for _, opt := range AnalysisOptions {
		if opt.Value == s {
			return AnalysisKind(s), true
		}
	}
	kind, ok := analysisAliases[s]
	return kind, ok
}

// ParseVisualizationKind resolves a visualization name. Underscored spellings
// ("bar_chart") are accepted alongside the canonical hyphenated ones.
func ParseVisualizationKind(s string) (VisualizationKind, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	for _, opt := range VisualizationOptions {
		if opt.Value == s {
			return VisualizationKind(s), true
		}
	}
	return "", false
}

// Option returns the catalog entry for the kind.
func (k AnalysisKind) Option() Option {
	for _, opt := range AnalysisOptions {
		if opt.Value == string(k) {
			return opt
		}
	}
	return Option{Value: string(k), Title: string(k)}
}

// Option returns the catalog entry for the kind.
func (k VisualizationKind) Option() Option {
	for _, opt := range VisualizationOptions {
		if opt.Value == string(k) {
			return opt
		}
	}
	return Option{Value: string(k), Title: string(k)}
}

// UsesValueKey reports whether the projection carries a third value column.
func (k VisualizationKind) UsesValueKey() bool {
	return k == KindHeatmap
}

// Selection is the set of columns a visualization projects onto.
type Selection struct {
	XKey     string `json:"xKey"`
	YKey     string `json:"yKey"`
	ValueKey string `json:"valueKey,omitempty"`
}

// DefaultSelection picks the first columns of the table for any key left empty:
// x from the first header, y from the second and, for heatmaps, the value from
// the third. A key stays empty when the table has too few columns.
func DefaultSelection(kind VisualizationKind, headers []string, sel Selection) Selection {
	pick := func(i int) string {
		if i < len(headers) {
			return headers[i]
		}
		return ""
	}

	if sel.XKey == "" {
		sel.XKey = pick(0)
	}
	if sel.YKey == "" {
		sel.YKey = pick(1)
	}
	if kind.UsesValueKey() {
		if sel.ValueKey == "" {
			sel.ValueKey = pick(2)
		}
	} else {
		sel.ValueKey = ""
	}
	return sel
}
