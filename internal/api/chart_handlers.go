package api

import (
	"net/http"

	"anaviz/domain/analysis"
	engine "anaviz/internal/analysis"

	"github.com/gin-gonic/gin"
)

// chartRoutes maps each chart route to the projection it serves
var chartRoutes = map[string]analysis.VisualizationKind{
	"bar-chart":    analysis.KindBarChart,
	"line-graph":   analysis.KindLineGraph,
	"scatter-plot": analysis.KindScatterPlot,
	"heatmap":      analysis.KindHeatmap,
}

// handleChartFromSession projects a stored dataset using query parameter keys
func (s *Server) handleChartFromSession(kind analysis.VisualizationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, err := s.datasetFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}

		sel := analysis.Selection{
			XKey:     c.Query("xKey"),
			YKey:     c.Query("yKey"),
			ValueKey: c.Query("valueKey"),
		}
		c.JSON(http.StatusOK, chartResponse(engine.Visualize(ds.Table, kind, sel)))
	}
}

// handleChartFromUpload projects an uploaded file without storing it
func (s *Server) handleChartFromUpload(kind analysis.VisualizationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, _, err := s.readUploadedTable(c)
		if err != nil {
			respondError(c, err)
			return
		}

		sel := analysis.Selection{
			XKey:     c.PostForm("xKey"),
			YKey:     c.PostForm("yKey"),
			ValueKey: c.PostForm("valueKey"),
		}
		c.JSON(http.StatusOK, chartResponse(engine.Visualize(t, kind, sel)))
	}
}

func chartResponse(r analysis.Result) gin.H {
	body := gin.H{
		"data": r.Data,
		"xKey": r.XKey,
		"yKey": r.YKey,
	}
	if r.ValueKey != "" {
		body["valueKey"] = r.ValueKey
	}
	return body
}
