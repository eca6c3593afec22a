package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dmorales-dev/fleet-panel-api/api/swagger"
	"github.com/dmorales-dev/fleet-panel-api/internal/dto"
	"github.com/dmorales-dev/fleet-panel-api/internal/handler"
	"github.com/dmorales-dev/fleet-panel-api/internal/middleware"
	"github.com/dmorales-dev/fleet-panel-api/internal/models"
	"github.com/dmorales-dev/fleet-panel-api/internal/repository"
	"github.com/dmorales-dev/fleet-panel-api/internal/service"
	"github.com/dmorales-dev/fleet-panel-api/pkg/cache"
	"github.com/dmorales-dev/fleet-panel-api/pkg/config"
	"github.com/dmorales-dev/fleet-panel-api/pkg/database"
	"github.com/dmorales-dev/fleet-panel-api/pkg/export"
	"github.com/dmorales-dev/fleet-panel-api/pkg/logger"
	corsmiddleware "github.com/dmorales-dev/fleet-panel-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dmorales-dev/fleet-panel-api/pkg/middleware/requestid"
)

// @title Fleet Panel API
// @version 1.0.0
// @description Report and document export service for the fleet panel
// @BasePath /api
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("reportkind", dto.ReportKindValidator); err != nil {
			logr.Sugar().Fatalw("failed to register validator", "error", err)
		}
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The cache is an accelerator, not a dependency. A missing Redis only
	// costs lookup latency.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, lookup caching disabled", "error", err)
		redisClient = nil
	}

	style := export.Style{
		BrandColor:     cfg.Export.BrandColor,
		HeaderFont:     cfg.Export.HeaderFont,
		AltRowColor:    cfg.Export.AltRowColor,
		BorderColor:    cfg.Export.BorderColor,
		CurrencySymbol: cfg.Export.CurrencySymbol,
		DateLayout:     cfg.Export.DateLayout,
		ColumnWidth:    cfg.Export.ColumnWidth,
		Attribution:    cfg.Export.Attribution,
	}

	reportRepo := repository.NewReportRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	catalog := service.NewFieldCatalog()
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT)
	reportSvc := service.NewReportService(reportRepo, cacheRepo, catalog, logr, metricsSvc, cfg.Reports.LookupCacheTTL)
	driverSvc := service.NewDriverService(driverRepo, logr)
	exportSvc := service.NewExportService(reportSvc, export.NewExcelExporter(style), export.NewProfileRenderer(style), logr)

	reportHandler := handler.NewReportHandler(reportSvc, exportSvc, metricsSvc)
	driverHandler := handler.NewDriverHandler(driverSvc, exportSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	if cfg.Reports.Enabled {
		reports := api.Group("/reports")
		reports.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleManager))
		reports.GET("/fields", reportHandler.Fields)
		reports.GET("/maintenance-types", reportHandler.MaintenanceTypes)
		reports.GET("/stats", reportHandler.Stats)
		reports.GET("/:kind/export", reportHandler.Export)
	}

	drivers := api.Group("/drivers")
	drivers.GET("/:id/profile", middleware.RBAC(string(models.RoleAdmin), string(models.RoleManager), "SELF"), driverHandler.Profile)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
