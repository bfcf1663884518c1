package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/sma-intervention-api/api/swagger"
	"github.com/noah-isme/sma-intervention-api/internal/handler"
	"github.com/noah-isme/sma-intervention-api/internal/repository"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	"github.com/noah-isme/sma-intervention-api/pkg/cache"
	"github.com/noah-isme/sma-intervention-api/pkg/config"
	"github.com/noah-isme/sma-intervention-api/pkg/database"
	"github.com/noah-isme/sma-intervention-api/pkg/jobs"
	"github.com/noah-isme/sma-intervention-api/pkg/logger"
)

// @title SMA Intervention API
// @version 1.0.0
// @description Behavioral intervention escalation engine: decision tree, Tier-A coaching, Tier-B reset conferences, Tier-C case management and re-entry protocols.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, database.Migrations)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logr.Info("schema migrated", zap.Ints("applied", applied))
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.DomainCache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, domain cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	defer cacheRepo.Close() //nolint:errcheck

	loc := cfg.Intervention.Location()
	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), logr)
	auditQueue := jobs.NewQueue("audit", auditSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Audit.Workers,
		BufferSize: 256,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
		Logger:     logr,
	})
	auditSvc.AttachQueue(auditQueue)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.DomainCache.TTL, logr, cfg.DomainCache.Enabled)
	domainSvc := service.NewDomainService(repository.NewDomainRepository(db), cacheSvc, logr)
	assessmentSvc := service.NewAssessmentService(domainSvc, validate, logr)
	reentrySvc := service.NewReentryService(repository.NewReentryRepository(db), auditSvc, metrics, validate, logr, service.ReentryConfig{
		DefaultChecklist: cfg.Intervention.DefaultChecklist,
		Location:         loc,
	})
	levelASvc := service.NewLevelAService(repository.NewLevelARepository(db), auditSvc, metrics, validate, logr, loc)
	levelBSvc := service.NewLevelBService(repository.NewLevelBRepository(db), domainSvc, reentrySvc, auditSvc, metrics, validate, logr, service.LevelBConfig{
		SuccessThreshold: cfg.Intervention.SuccessThreshold,
		DefaultResetDays: cfg.Intervention.DefaultResetDays,
		Location:         loc,
	})
	levelCSvc := service.NewLevelCService(repository.NewLevelCRepository(db), reentrySvc, auditSvc, metrics, validate, logr, loc)

	var cachePing handler.CachePinger
	if cfg.DomainCache.Enabled {
		cachePing = cacheRepo
	}
	router := newRouter(cfg, logr, service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer), metrics, handlers{
		health:     handler.NewHealthHandler(metrics, db, cachePing),
		assessment: handler.NewAssessmentHandler(assessmentSvc),
		domain:     handler.NewDomainHandler(domainSvc),
		levelA:     handler.NewLevelAHandler(levelASvc),
		levelB:     handler.NewLevelBHandler(levelBSvc),
		levelC:     handler.NewLevelCHandler(levelCSvc),
		reentry:    handler.NewReentryHandler(reentrySvc),
		audit:      handler.NewAuditHandler(auditSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	auditQueue.Start(gctx)

	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		auditQueue.Stop()
		logr.Info("server stopped")
		return err
	})

	return g.Wait()
}
