package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luminary/internal/platform/config"
	"luminary/internal/platform/httpserver"
	"luminary/internal/platform/logger"
	"luminary/internal/platform/metrics"
	"luminary/internal/platform/postgres"
	platformredis "luminary/internal/platform/redis"
	"luminary/internal/platform/token"
	"luminary/internal/scan/enrich"
	scanhandler "luminary/internal/scan/handler"
	"luminary/internal/scan/orchestrator"
	"luminary/internal/scan/service"
	"luminary/internal/scan/store"
	profilestore "luminary/internal/scan/store/profile"
	runstore "luminary/internal/scan/store/run"
	"luminary/internal/sources"
	"luminary/internal/sources/catalog"
	httptransport "luminary/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle
// small. Business logic lives in the internal scan packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()
	ctx := context.Background()

	var (
		runs     orchestrator.RunStore
		runsRead service.RunReader
		profiles service.ProfileStore
		health   = map[string]httptransport.HealthChecker{}
	)
	if cfg.Postgres.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		pgRuns := runstore.NewPostgres(db.Pool)
		runs, runsRead = pgRuns, pgRuns
		profiles = profilestore.NewPostgres(db.Pool)
		health["postgres"] = db
	} else {
		memRuns := runstore.NewInMemory()
		memProfiles := profilestore.NewInMemory()
		runs, runsRead = memRuns, memRuns
		profiles = memProfiles
		demo := store.SeedDemoProfile(memProfiles)
		log.Warn("no DATABASE_URL set; using in-memory stores",
			"demo_target_id", demo.ID,
			"demo_account_id", demo.AccountID,
		)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = redisClient
	}

	model, err := enrich.NewGenAIModel(ctx, cfg.Enrich.APIKey, cfg.Enrich.Model)
	if err != nil {
		log.Error("genai client failed", "error", err)
		os.Exit(1)
	}
	if model == nil {
		log.Warn("no GEMINI_API_KEY set; enrichment will use neutral defaults and templated summaries")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var cache sources.Cache
	if c := sources.NewRedisCache(redisClient, cfg.Redis.CacheTTL); c != nil {
		cache = c
	}
	modules := sources.BuildModules(
		catalog.Default(cfg.Providers, httpClient),
		cfg.Scan, log, m, cache,
	)

	// Avoid wrapping a typed nil in the TextModel interface.
	var textModel enrich.TextModel
	if model != nil {
		textModel = model
	}
	enricher := enrich.New(textModel, log, enrich.WithBatchSize(cfg.Enrich.BatchSize), enrich.WithMetrics(m))

	orch := orchestrator.New(runs, sources.NewRunner(modules), enricher, log,
		orchestrator.WithMaxResults(cfg.Scan.MaxResults),
		orchestrator.WithTimeout(cfg.Scan.Timeout),
		orchestrator.WithMetrics(m),
	)

	svc := service.New(profiles, runsRead, orch)
	tokens := token.NewService(cfg.Auth.JWTSigningKey, "luminary")
	router := httptransport.NewRouter(httptransport.Deps{
		Scans:     scanhandler.New(svc, log),
		Validator: tokens,
		Logger:    log,
		Health:    health,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting luminary scan engine", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	// Let in-flight scans settle their terminal status before exit.
	orch.Wait()
}
