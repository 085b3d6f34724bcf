package api

import (
	"fmt"
	"net/http"

	"anaviz/domain/analysis"
	"anaviz/internal/errors"
	engine "anaviz/internal/analysis"
	"anaviz/internal/report"

	"github.com/gin-gonic/gin"
)

type analysisView struct {
	kind analysis.AnalysisKind
	key  string
}

// analysisViews maps each single-analysis route to its kind and response key
var analysisViews = map[string]analysisView{
	"statistical-summary":   {kind: analysis.KindSummary, key: "summary"},
	"correlation-matrix":    {kind: analysis.KindCorrelation, key: "matrix"},
	"missing-data-overview": {kind: analysis.KindMissing, key: "overview"},
	"outlier-detection":     {kind: analysis.KindOutliers, key: "outliers"},
}

type analyzeRequest struct {
	SessionID    string                 `json:"sessionId"`
	AnalysisType string                 `json:"analysisType"`
	Params       map[string]interface{} `json:"params"`
}

type fullAnalysisRequest struct {
	SessionID string `json:"sessionId"`
	analysis.Request
}

func (s *Server) handleAnalysisView(view analysisView) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, err := s.datasetFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}

		result := engine.Analyze(ds.Table, view.kind)
		c.JSON(http.StatusOK, gin.H{view.key: result.Data})
	}
}

// handleAnalyze runs one analysis named in a JSON body
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	kind, ok := analysis.ParseAnalysisKind(req.AnalysisType)
	if !ok {
		respondError(c, errors.InvalidInput(fmt.Sprintf("unknown analysisType %q", req.AnalysisType)))
		return
	}

	ds, err := s.loadDataset(c, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := engine.Analyze(ds.Table, kind)
	c.JSON(http.StatusOK, gin.H{
		"type":  result.Type,
		"title": result.Title,
		"data":  result.Data,
	})
}

// handleFullAnalysis runs every requested analysis and visualization in one batch
func (s *Server) handleFullAnalysis(c *gin.Context) {
	var req fullAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	ds, err := s.loadDataset(c, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := s.engine.Run(c.Request.Context(), ds.Table, req.Request)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleReport renders all four analyses of a dataset as markdown or HTML
func (s *Server) handleReport(c *gin.Context) {
	format := c.DefaultQuery("format", "md")
	if format != "md" && format != "html" {
		respondError(c, errors.InvalidInput(fmt.Sprintf("unknown report format %q", format)))
		return
	}

	ds, err := s.datasetFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	req := analysis.Request{}
	for _, opt := range analysis.AnalysisOptions {
		req.Analyses = append(req.Analyses, opt.Value)
	}
	results, err := s.engine.Run(c.Request.Context(), ds.Table, req)
	if err != nil {
		respondError(c, err)
		return
	}

	md := report.Markdown(ds.Filename, results)
	if format == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(md))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// handleOptions lists the selectable analyses and visualizations
func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"analyses":       analysis.AnalysisOptions,
		"visualizations": analysis.VisualizationOptions,
	})
}
