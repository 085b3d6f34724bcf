// Package analysis implements the statistical views and chart projections over
// a table.Table. Every function here is pure: same table in, same result out.
package analysis

import (
	"context"
	"runtime"
	"time"

	"anaviz/domain/analysis"
	"anaviz/domain/table"
	"anaviz/internal"

	"golang.org/x/sync/errgroup"
)

// analyzers maps each statistical view to the function computing it.
var analyzers = map[analysis.AnalysisKind]func(*table.Table) interface{}{
	analysis.KindSummary:     func(t *table.Table) interface{} { return Summarize(t) },
	analysis.KindCorrelation: func(t *table.Table) interface{} { return Correlate(t) },
	analysis.KindMissing:     func(t *table.Table) interface{} { return MissingOverview(t) },
	analysis.KindOutliers:    func(t *table.Table) interface{} { return DetectOutliers(t) },
}

// Analyze runs a single statistical view. An unknown kind yields a result
// with no type and no data.
func Analyze(t *table.Table, kind analysis.AnalysisKind) analysis.Result {
	opt := kind.Option()
	fn, ok := analyzers[kind]
	if !ok {
		internal.DefaultLogger.Warn("[Engine] No analyzer for %q", kind)
		return analysis.Result{Title: opt.Title}
	}
	return analysis.Result{
		Type:  opt.ResultType,
		Title: opt.Title,
		Data:  fn(t),
	}
}

// Visualize projects the table for one chart kind. Empty keys in sel are filled
// from the table's leading columns.
func Visualize(t *table.Table, kind analysis.VisualizationKind, sel analysis.Selection) analysis.Result {
	sel = analysis.DefaultSelection(kind, t.Headers(), sel)
	opt := kind.Option()
	return analysis.Result{
		Type:     opt.ResultType,
		Title:    opt.Title,
		Data:     Project(t, sel.XKey, sel.YKey, sel.ValueKey),
		XKey:     sel.XKey,
		YKey:     sel.YKey,
		ValueKey: sel.ValueKey,
	}
}

// Engine runs batches of views concurrently over one table.
type Engine struct {
	limit int
}

// NewEngine creates an engine that runs at most GOMAXPROCS views at once.
func NewEngine() *Engine {
	return &Engine{limit: runtime.GOMAXPROCS(0)}
}

// Run produces every requested analysis followed by every requested
// visualization, in request order. Unknown kinds are skipped.
func (e *Engine) Run(ctx context.Context, t *table.Table, req analysis.Request) ([]analysis.Result, error) {
	type job func() analysis.Result

	var jobs []job
	for _, name := range req.Analyses {
		kind, ok := analysis.ParseAnalysisKind(name)
		if !ok {
			internal.DefaultLogger.Warn("[Engine] Skipping unknown analysis %q", name)
			continue
		}
		jobs = append(jobs, func() analysis.Result { return Analyze(t, kind) })
	}
	for _, name := range req.Visualizations {
		kind, ok := analysis.ParseVisualizationKind(name)
		if !ok {
			internal.DefaultLogger.Warn("[Engine] Skipping unknown visualization %q", name)
			continue
		}
		sel := req.Columns[name]
		if s, ok := req.Columns[string(kind)]; ok {
			sel = s
		}
		jobs = append(jobs, func() analysis.Result { return Visualize(t, kind, sel) })
	}

	start := time.Now()
	results := make([]analysis.Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, run := range jobs {
		i, run := i, run
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = run()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	internal.DefaultLogger.Debug("[Engine] Ran %d views over %d rows in %s", len(results), t.NumRows(), time.Since(start))
	return results, nil
}
