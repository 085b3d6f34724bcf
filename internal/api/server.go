// Package api exposes datasets and their analyses over HTTP for the AnaViz frontend.
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	engine "anaviz/internal/analysis"
	"anaviz/internal/config"
	"anaviz/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// Server wires the HTTP routes to a dataset store and the analysis engine
type Server struct {
	router *gin.Engine
	store  session.Store
	engine *engine.Engine
	upload config.UploadConfig
	origin string

	// parseBudget bounds the bytes of uploads being parsed at once
	parseBudget *semaphore.Weighted
}

// NewServer creates a server with every route registered
func NewServer(cfg *config.Config, store session.Store) *Server {
	s := &Server{
		router: gin.New(),
		store:  store,
		engine: engine.NewEngine(),
		upload: cfg.Upload,
		origin: cfg.Server.AllowedOrigin,

		parseBudget: semaphore.NewWeighted(cfg.Upload.ParseBudget()),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.Use(corsMiddleware(s.origin))
	// keep multipart parsing within the upload limit instead of gin's 32MB default
	s.router.MaxMultipartMemory = s.upload.MaxBytes()
}

func (s *Server) setupRoutes() {
	limit := limitBody(s.upload.MaxBytes())

	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.POST("/upload", limit, s.handleUpload)
	s.router.GET("/full-data", s.handleFullData)
	s.router.GET("/trial", s.handleTrial)

	api := s.router.Group("/api")
	{
		api.GET("/statistical-summary", s.handleAnalysisView(analysisViews["statistical-summary"]))
		api.GET("/correlation-matrix", s.handleAnalysisView(analysisViews["correlation-matrix"]))
		api.GET("/missing-data-overview", s.handleAnalysisView(analysisViews["missing-data-overview"]))
		api.GET("/outlier-detection", s.handleAnalysisView(analysisViews["outlier-detection"]))

		for path, kind := range chartRoutes {
			api.GET("/"+path, s.handleChartFromSession(kind))
			api.POST("/"+path, limit, s.handleChartFromUpload(kind))
		}

		api.POST("/analyze", s.handleAnalyze)
		api.POST("/full-analysis", s.handleFullAnalysis)
		api.GET("/report", s.handleReport)
		api.GET("/options", s.handleOptions)
		api.DELETE("/sessions/:id", s.handleDeleteSession)
	}
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("[Server] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
