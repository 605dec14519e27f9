package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"example.com/killboard/internal/api"
	"example.com/killboard/internal/config"
	"example.com/killboard/internal/domain"
	"example.com/killboard/internal/logger"
	"example.com/killboard/internal/origin"
	"example.com/killboard/internal/persistence"
	"example.com/killboard/internal/persistence/memory"
	"example.com/killboard/internal/persistence/postgres"
	httptransport "example.com/killboard/internal/transport/http"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts, activities, closeStore, err := buildRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise store")
	}
	defer closeStore()

	mux := http.NewServeMux()
	api.NewHandler(accounts, activities).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	guard := origin.NewMiddleware(func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	})
	chain := guard.Wrap(httptransport.RequestID(httptransport.RequestLogger(log)(mux)))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      ":" + cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, chain)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Msg("killboard listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildRepositories picks the storage backend. Without a configured database
// host the service runs on its in-memory repositories; otherwise it connects
// a pgx pool and serves from PostgreSQL.
func buildRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.AccountRepository, domain.ActivityRepository, func(), error) {
	if cfg.Database.Host == "" {
		log.Info().Msg("no database host configured, using in-memory repositories")
		store := memory.NewStore()
		return store.Accounts(), store.Activities(), func() {}, nil
	}

	pool, err := persistence.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	exec := persistence.NewExecutor(pool)
	return postgres.NewAccountRepository(exec), postgres.NewActivityRepository(exec), pool.Close, nil
}
