package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/handler"
	"github.com/noah-isme/sma-intervention-api/internal/middleware"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	"github.com/noah-isme/sma-intervention-api/pkg/config"
	"github.com/noah-isme/sma-intervention-api/pkg/logger"
	"github.com/noah-isme/sma-intervention-api/pkg/middleware/requestid"
)

type handlers struct {
	health     *handler.HealthHandler
	assessment *handler.AssessmentHandler
	domain     *handler.DomainHandler
	levelA     *handler.LevelAHandler
	levelB     *handler.LevelBHandler
	levelC     *handler.LevelCHandler
	reentry    *handler.ReentryHandler
	audit      *handler.AuditHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, tokens middleware.TokenValidator, metrics *service.MetricsService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.health.Health)
	r.GET("/ready", h.health.Ready)
	r.GET("/metrics", h.health.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []models.UserRole{models.RoleAdmin, models.RoleCounselor, models.RoleTeacher}
	caseStaff := []models.UserRole{models.RoleAdmin, models.RoleCounselor}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokens), middleware.RequestMeta(), middleware.WithResponseMeta())
	api.Use(middleware.RequireRoles(staff...))
	{
		api.POST("/assessments", h.assessment.Assess)

		api.GET("/domains", h.domain.List)
		api.GET("/domains/:id", h.domain.Get)

		api.POST("/level-a", h.levelA.Create)
		api.GET("/level-a", h.levelA.List)
		api.GET("/level-a/:id", h.levelA.Get)

		api.POST("/level-b", h.levelB.Create)
		api.GET("/level-b", h.levelB.List)
		api.GET("/level-b/:id", h.levelB.Get)
		api.PATCH("/level-b/:id/steps", h.levelB.UpdateStep)
		api.POST("/level-b/:id/monitoring", h.levelB.StartMonitoring)
		api.POST("/level-b/:id/daily-rates", h.levelB.LogDailyRate)
		api.POST("/level-b/:id/complete", h.levelB.Complete)

		api.GET("/level-c", h.levelC.List)
		api.GET("/level-c/:id", h.levelC.Get)
		api.GET("/level-c/:id/export", h.levelC.Export)

		api.GET("/reentry", h.reentry.List)
		api.GET("/reentry/:id", h.reentry.Get)
		api.GET("/reentry/:id/script", h.reentry.Script)
		api.PATCH("/reentry/:id/checklist", h.reentry.UpdateChecklist)
		api.POST("/reentry/:id/first-rep", h.reentry.CompleteFirstRep)
		api.POST("/reentry/:id/daily-logs", h.reentry.LogDaily)
	}

	cases := api.Group("")
	cases.Use(middleware.RequireRoles(caseStaff...))
	{
		cases.POST("/level-c", h.levelC.Create)
		cases.PUT("/level-c/:id/case-manager", h.levelC.AssignCaseManager)
		cases.PATCH("/level-c/:id/context-packet", h.levelC.UpdateContextPacket)
		cases.POST("/level-c/:id/admin-response", h.levelC.RecordAdminResponse)
		cases.POST("/level-c/:id/reentry-plan", h.levelC.CreateReentryPlan)
		cases.POST("/level-c/:id/monitoring", h.levelC.StartMonitoring)
		cases.POST("/level-c/:id/check-ins", h.levelC.LogCheckIn)
		cases.POST("/level-c/:id/close", h.levelC.Close)

		cases.POST("/reentry", h.reentry.Create)
		cases.POST("/reentry/:id/start", h.reentry.Start)
		cases.POST("/reentry/:id/complete", h.reentry.Complete)

		cases.GET("/audit-logs/:resource/:id", h.audit.History)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
