package main

import (
	"fmt"
	"os"

	"anaviz/adapters/excel"
	"anaviz/domain/analysis"
	engine "anaviz/internal/analysis"
	"anaviz/internal/report"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "anaviz",
		Short:         "AnaViz CLI for analyzing CSV and Excel datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalysisCmd(analysis.KindSummary, "Per-column count, unique, mean, std, min and max"),
		newAnalysisCmd(analysis.KindCorrelation, "Pearson correlation between numeric columns"),
		newAnalysisCmd(analysis.KindMissing, "Missing cells per column"),
		newAnalysisCmd(analysis.KindOutliers, "IQR outliers per numeric column"),
		newSeriesCmd(),
		newReportCmd(),
	)

	return rootCmd
}

func newAnalysisCmd(kind analysis.AnalysisKind, short string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   string(kind) + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := excel.ReadFile(args[0])
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), engine.Analyze(t, kind), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func newSeriesCmd() *cobra.Command {
	var format, kindName string
	var sel analysis.Selection

	cmd := &cobra.Command{
		Use:   "series <file>",
		Short: "Project a dataset onto chart keys",
		Long: `Project a dataset onto the x/y (and, for heatmaps, value) columns of a chart.
Keys left empty default to the first, second and third columns.

Example: anaviz series sales.csv --kind bar-chart --x month --y revenue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := analysis.ParseVisualizationKind(kindName)
			if !ok {
				return fmt.Errorf("unknown chart kind %q", kindName)
			}

			t, err := excel.ReadFile(args[0])
			if err != nil {
				return err
			}
			return renderResult(cmd.OutOrStdout(), engine.Visualize(t, kind, sel), format)
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", string(analysis.KindBarChart), "Chart kind: bar-chart, line-graph, scatter-plot or heatmap")
	cmd.Flags().StringVar(&sel.XKey, "x", "", "Column for the x axis")
	cmd.Flags().StringVar(&sel.YKey, "y", "", "Column for the y axis")
	cmd.Flags().StringVar(&sel.ValueKey, "value", "", "Value column (heatmap only)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func newReportCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Write a markdown report of every analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := excel.ReadFile(args[0])
			if err != nil {
				return err
			}

			req := analysis.Request{}
			for _, opt := range analysis.AnalysisOptions {
				req.Analyses = append(req.Analyses, opt.Value)
			}
			results, err := engine.NewEngine().Run(cmd.Context(), t, req)
			if err != nil {
				return err
			}

			md := report.Markdown(args[0], results)
			if asHTML {
				_, err = cmd.OutOrStdout().Write(report.HTML(md))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	return cmd
}
