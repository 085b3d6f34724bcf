package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewProfilingHandler serves net/http/pprof and expvar under /debug
func NewProfilingHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", middleware.Profiler())
	return r
}

// StartProfiling serves the profiling handler on port; it blocks like ListenAndServe
func StartProfiling(port string) error {
	log.Printf("[Profiling] pprof listening on :%s", port)
	log.Printf("[Profiling] View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", port)
	return http.ListenAndServe(":"+port, NewProfilingHandler())
}
