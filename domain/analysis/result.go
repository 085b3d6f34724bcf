package analysis

// Result is one rendered view of a dataset: a statistical analysis or a chart
// projection, tagged with the type string the frontend dispatches on.
type Result struct {
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Data     interface{} `json:"data"`
	XKey     string      `json:"xKey,omitempty"`
	YKey     string      `json:"yKey,omitempty"`
	ValueKey string      `json:"valueKey,omitempty"`
}

// Request selects which views a batch run produces. Columns maps a
// visualization kind to its column selection; empty keys fall back to
// DefaultSelection.
type Request struct {
	Analyses       []string             `json:"analyses"`
	Visualizations []string             `json:"visualizations"`
	Columns        map[string]Selection `json:"columns,omitempty"`
}
