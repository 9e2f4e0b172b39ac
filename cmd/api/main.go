package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter-ops/internal/audit"
	"callcenter-ops/internal/campaigns"
	"callcenter-ops/internal/cdr"
	"callcenter-ops/internal/classify"
	"callcenter-ops/internal/config"
	"callcenter-ops/internal/httpapi"
	"callcenter-ops/internal/numbers"
	"callcenter-ops/internal/routing"
	"callcenter-ops/pkg/logger"
	"callcenter-ops/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local convenience only; in deployed envs the runner provides the env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Backend clients share one pooled HTTP client.
	hc := utils.NewHTTPClient(cfg.Backends.ClientTimeout)

	classifier := classify.NewClient(cfg.Backends.ClassifierAPIURL, hc)
	directory := campaigns.NewDirectory(
		campaigns.NewClient(cfg.Backends.CampaignAPIURL, hc),
		cfg.Pipeline.MaxRetries,
		cfg.Pipeline.RetryDelay,
	)
	masker := numbers.NewMaskResolver(numbers.NewClient(cfg.Backends.NumbersAPIURL, hc))
	writer := cdr.NewHTTPWriter(cfg.Backends.CDRAPIURL, hc)

	// Decision audit trail is optional; the pipeline runs without it.
	var recorder *audit.Service
	if cfg.AuditEnabled() {
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		recorder = audit.NewService(audit.NewPostgresRepo(db))
		log.Info("decision audit enabled")
	}

	engine := routing.NewEngine(classifier, directory, masker, writer, recorder, cfg.Pipeline.FraudScoreThreshold)

	h := httpapi.Handlers{Engine: engine}
	if cfg.IdempotencyEnabled() {
		rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		h.Redis = rdb
		h.IdempotencyTTL = time.Minute
		log.Info("ingest idempotency guard enabled")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
