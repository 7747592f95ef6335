package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/ideas/internal/config"
	"github.com/sujalbistaa/ideas/internal/db"
	routes "github.com/sujalbistaa/ideas/internal/http"
	"github.com/sujalbistaa/ideas/internal/logger"
	"github.com/sujalbistaa/ideas/internal/repo"
	"github.com/sujalbistaa/ideas/internal/service"
	"github.com/sujalbistaa/ideas/internal/ws"
)

const (
	shutdownTimeout = 5 * time.Second
	limiterIdleTTL  = 10 * time.Minute
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	// 1. Database and pool
	database, err := db.Open(cfg)
	if err != nil {
		log.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	pool := db.NewPool(database, cfg.DBAcquireTimeout)

	log.Info("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Info("Migrations complete.")

	// 2. Services
	likes := service.NewLikeService(repo.NewLikeRepository(database), log)
	ideas := service.NewIdeaService(repo.NewIdeaRepository(database), likes, log)

	// 3. Event hub
	hub := ws.NewHub()
	go hub.Run()

	// 4. Router
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := routes.Options{CORSOrigin: cfg.CORSOrigin}
	if cfg.CreateRateLimit > 0 {
		opts.CreateLimiter = routes.NewIPRateLimiter(rate.Limit(cfg.CreateRateLimit), cfg.CreateRateBurst)
		go pruneLimiter(ctx, opts.CreateLimiter)
	}

	router := gin.New()
	routes.SetupRoutes(router, &routes.Env{
		Ideas:  ideas,
		Likes:  likes,
		Pool:   pool,
		Hub:    hub,
		Logger: log,
	}, opts)

	// 5. Serve until signalled
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info("Server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	hub.Stop()
	if err := pool.Close(); err != nil {
		log.Error("Error closing database: %v", err)
	}

	log.Info("Server exiting")
}

func pruneLimiter(ctx context.Context, limiter *routes.IPRateLimiter) {
	ticker := time.NewTicker(limiterIdleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(limiterIdleTTL)
		}
	}
}
