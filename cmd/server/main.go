package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anaviz/internal"
	"anaviz/internal/api"
	"anaviz/internal/config"
	"anaviz/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// sweepInterval is how often expired datasets are removed
const sweepInterval = 10 * time.Minute

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, appConfig.Session)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer closeStore()

	go session.RunSweeper(ctx, store, appConfig.Session.TTL, sweepInterval)

	if appConfig.Profiling.Enabled {
		go func() {
			if err := api.StartProfiling(appConfig.Profiling.Port); err != nil {
				internal.DefaultLogger.Error("[Profiling] pprof server failed: %v", err)
			}
		}()
	}

	server := api.NewServer(appConfig, store)
	log.Printf("Starting AnaViz server on port %s (log level %s)", appConfig.Server.Port, internal.DefaultLogger.GetLevel())
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// openStore picks PostgreSQL when DATABASE_URL is set, memory otherwise
func openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Println("[SessionStore] DATABASE_URL not set, keeping datasets in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	store, err := session.OpenPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Println("[SessionStore] Using PostgreSQL")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("[SessionStore] Close failed: %v", err)
		}
	}, nil
}
