package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cmaapp "github.com/closeline/backend/internal/application/cma"
	"github.com/closeline/backend/internal/domain/cma"
	"github.com/closeline/backend/internal/domain/identity"
	"github.com/closeline/backend/internal/domain/transaction"
	identityapp "github.com/closeline/backend/internal/application/identity"
	notificationapp "github.com/closeline/backend/internal/application/notification"
	teamapp "github.com/closeline/backend/internal/application/team"
	txnapp "github.com/closeline/backend/internal/application/transaction"
	"github.com/closeline/backend/internal/infrastructure/auth"
	"github.com/closeline/backend/internal/infrastructure/cache"
	"github.com/closeline/backend/internal/infrastructure/config"
	"github.com/closeline/backend/internal/infrastructure/email"
	"github.com/closeline/backend/internal/infrastructure/event"
	"github.com/closeline/backend/internal/infrastructure/logger"
	"github.com/closeline/backend/internal/infrastructure/pdf"
	"github.com/closeline/backend/internal/infrastructure/persistence"
	"github.com/closeline/backend/internal/infrastructure/scheduler"
	"github.com/closeline/backend/internal/infrastructure/slack"
	"github.com/closeline/backend/internal/infrastructure/storage"
	"github.com/closeline/backend/internal/infrastructure/telemetry"
	"github.com/closeline/backend/internal/interfaces/http/handler"
	"github.com/closeline/backend/internal/interfaces/http/middleware"
	"github.com/closeline/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Closeline API
//	@version		1.0
//	@description	Real-estate back-office API: transaction pipeline, CMA reports, and closing reminders
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/closeline/backend
//	@contact.email	support@closeline.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Closeline Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Telemetry providers (no-ops when disabled)
	var (
		tracerProvider *telemetry.TracerProvider
		meterProvider  *telemetry.MeterProvider
	)
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			if err := meterProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         cfg.Telemetry.DBTraceEnabled,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
		log.Info("Telemetry enabled",
			zap.String("collector", cfg.Telemetry.CollectorEndpoint),
			zap.Float64("sampling_ratio", cfg.Telemetry.SamplingRatio),
		)
	}

	// Initialize repositories
	brokerageRepo := persistence.NewGormBrokerageRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	coordinatorRepo := persistence.NewGormCoordinatorRepository(db.DB)
	agentProfileRepo := persistence.NewGormAgentProfileRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	cmaRepo := persistence.NewGormCmaRepository(db.DB)
	reportConfigRepo := persistence.NewGormReportConfigRepository(db.DB)
	reportExportRepo := persistence.NewGormReportExportRepository(db.DB)
	shareLogRepo := persistence.NewGormShareLogRepository(db.DB)
	notificationSettingRepo := persistence.NewGormNotificationSettingRepository(db.DB)
	reminderLogRepo := persistence.NewGormReminderLogRepository(db.DB)

	// Token services. The blacklist falls back to in-process storage when
	// Redis is unreachable so a cache outage does not block logins.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Identity services
	authService := identityapp.NewAuthService(brokerageRepo, userRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	brokerageService := identityapp.NewBrokerageService(brokerageRepo, userRepo, log)

	// Team services
	agentProfileService := teamapp.NewAgentProfileService(agentProfileRepo, log)
	coordinatorService := teamapp.NewCoordinatorService(coordinatorRepo, transactionRepo, log)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Transaction and CMA services
	transactionService := txnapp.NewTransactionService(transactionRepo, coordinatorRepo, eventBus, log)
	cmaService := cmaapp.NewCmaService(cmaRepo, eventBus, log)

	// Report object storage (S3 or local disk)
	objectStorage, err := storage.NewObjectStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	log.Info("Object storage ready", zap.String("provider", cfg.Storage.Provider))

	// Slack integration (optional)
	var slackClient *slack.Client
	if cfg.Slack.Enabled {
		slackClient, err = slack.NewClient(cfg.Slack, log)
		if err != nil {
			log.Fatal("Failed to initialize Slack client", zap.Error(err))
		}
		log.Info("Slack integration enabled")
	}

	// Email delivery (optional)
	var emailClient *email.Client
	if cfg.Email.Enabled {
		emailClient, err = email.NewClient(cfg.Email, log)
		if err != nil {
			log.Fatal("Failed to initialize email client", zap.Error(err))
		}
		log.Info("Email delivery enabled", zap.String("from", cfg.Email.FromAddress))
	}

	// Report services. The email sender stays nil when delivery is
	// disabled; sharing then returns EMAIL_DISABLED.
	var emailSender cmaapp.EmailSender
	if emailClient != nil {
		emailSender = emailClient
	}
	reportService := cmaapp.NewReportService(cmaRepo, reportConfigRepo, reportExportRepo,
		shareLogRepo, objectStorage, emailSender, log)

	// PDF rendering pipeline: processor renders and uploads, the worker
	// pool drains the queue the export endpoint feeds.
	renderer := pdf.NewChromedpRenderer(cfg.PDF, log)
	exportProcessor := cmaapp.NewExportProcessor(reportExportRepo, cmaRepo, reportConfigRepo,
		brokerageRepo, userRepo, agentProfileRepo, renderer, objectStorage, log)
	exportExecutor := scheduler.NewExportJobExecutor(exportProcessor)
	exportScheduler := scheduler.NewExportScheduler(scheduler.Config{
		Enabled:           cfg.Scheduler.Enabled,
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
	}, exportExecutor, log)
	exportService := cmaapp.NewExportService(cmaRepo, reportExportRepo, exportScheduler, objectStorage, log)

	// Business metrics: intake, export, and reminder counters plus the
	// periodically collected pipeline gauges
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider != nil {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("closeline-business"),
			Logger: log,
			PipelineProvider: &pipelineMetricsSource{
				txnRepo:    transactionRepo,
				exportRepo: reportExportRepo,
			},
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		transactionService.SetMetrics(businessMetrics)
		exportProcessor.SetMetrics(businessMetrics)
		businessMetrics.StartPeriodicCollection(context.Background(),
			&activeTenantSource{brokerageRepo: brokerageRepo}, 0)
		defer businessMetrics.Stop()
		log.Info("Business metrics enabled")
	}

	// Notification services
	settingService := notificationapp.NewSettingService(notificationSettingRepo, reminderLogRepo, log)

	// Register Slack milestone notifications on the event bus
	var channelService *txnapp.ChannelService
	if slackClient != nil {
		provisioner := txnapp.NewChannelProvisioner(slackClient, userRepo, coordinatorRepo, log)
		channelService = txnapp.NewChannelService(transactionRepo, provisioner, slackClient, log)
		slackNotifier := txnapp.NewSlackNotifier(transactionRepo, provisioner, slackClient, log)
		eventBus.Subscribe(slackNotifier, slackNotifier.EventTypes()...)
		log.Info("Slack event handlers registered",
			zap.Strings("events", slackNotifier.EventTypes()))
	}

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Background jobs: the export worker pool and the hourly reminder sweep
	if cfg.Scheduler.Enabled {
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
		defer func() {
			if err := exportScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping export scheduler", zap.Error(err))
			}
		}()
		log.Info("Export scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)

		deduperFactory := cache.NewReminderDeduperFactory(cfg.Redis,
			cache.WithFactoryLogger(log),
			cache.WithInMemoryFallback(true),
		)
		deduper, err := deduperFactory.CreateDeduper()
		if err != nil {
			log.Fatal("Failed to create reminder deduper", zap.Error(err))
		}

		var slackPoster notificationapp.SlackPoster
		if slackClient != nil {
			slackPoster = slackClient
		}
		var emailGateway notificationapp.EmailGateway
		if emailClient != nil {
			emailGateway = emailClient
		}
		sweeper := notificationapp.NewReminderSweeper(brokerageRepo, notificationSettingRepo,
			transactionRepo, userRepo, reminderLogRepo, deduper, slackPoster, emailGateway, log)
		if businessMetrics != nil {
			sweeper.SetMetrics(businessMetrics)
		}
		reminderTicker := scheduler.NewReminderTicker(cfg.Scheduler.ReminderCheckInterval, sweeper, log)
		if err := reminderTicker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reminder ticker", zap.Error(err))
		}
		defer func() {
			if err := reminderTicker.Stop(context.Background()); err != nil {
				log.Error("Error stopping reminder ticker", zap.Error(err))
			}
		}()
		log.Info("Reminder ticker started",
			zap.Duration("interval", cfg.Scheduler.ReminderCheckInterval))
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	brokerageHandler := handler.NewBrokerageHandler(brokerageService)
	agentProfileHandler := handler.NewAgentProfileHandler(agentProfileService)
	coordinatorHandler := handler.NewCoordinatorHandler(coordinatorService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	if channelService != nil {
		transactionHandler.SetChannelService(channelService)
	}
	cmaHandler := handler.NewCmaHandler(cmaService)
	exportHandler := handler.NewExportHandler(exportService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(settingService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OpenTelemetry (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/brokerages/register",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerConfig := middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(swaggerConfig, middleware.JWTAuthMiddlewareWithConfig(jwtConfig)),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Authentication - public routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Brokerage routes (registration is public, the rest is admin only)
	brokerageRoutes := router.NewDomainGroup("brokerage", "/brokerages")
	brokerageRoutes.POST("/register", brokerageHandler.Register)
	brokerageRoutes.GET("/current", brokerageHandler.Get)
	brokerageRoutes.PUT("/current", middleware.RequireAdmin(), brokerageHandler.Update)
	brokerageRoutes.POST("/current/suspend", middleware.RequireAdmin(), brokerageHandler.Suspend)
	brokerageRoutes.POST("/current/activate", middleware.RequireAdmin(), brokerageHandler.Activate)

	// User management routes (admin only)
	userRoutes := router.NewDomainGroup("user", "/users")
	userRoutes.POST("", middleware.RequireAdmin(), userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", middleware.RequireAdmin(), userHandler.Update)
	userRoutes.POST("/:id/activate", middleware.RequireAdmin(), userHandler.Activate)
	userRoutes.POST("/:id/deactivate", middleware.RequireAdmin(), userHandler.Deactivate)
	userRoutes.POST("/:id/reset-password", middleware.RequireAdmin(), userHandler.ResetPassword)

	// Team routes (coordinators, agent profile)
	teamRoutes := router.NewDomainGroup("team", "/team")
	teamRoutes.POST("/coordinators", coordinatorHandler.Create)
	teamRoutes.GET("/coordinators", coordinatorHandler.List)
	teamRoutes.GET("/coordinators/active", coordinatorHandler.ListActive)
	teamRoutes.GET("/coordinators/:id", coordinatorHandler.GetByID)
	teamRoutes.PUT("/coordinators/:id", coordinatorHandler.Update)
	teamRoutes.POST("/coordinators/:id/activate", coordinatorHandler.Activate)
	teamRoutes.POST("/coordinators/:id/deactivate", coordinatorHandler.Deactivate)
	teamRoutes.GET("/profile", agentProfileHandler.Get)
	teamRoutes.PUT("/profile", agentProfileHandler.Upsert)
	teamRoutes.PUT("/profile/headshot", agentProfileHandler.SetHeadshot)

	// Transaction routes
	transactionRoutes := router.NewDomainGroup("transaction", "/transactions")
	transactionRoutes.POST("", transactionHandler.Create)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/pipeline", transactionHandler.PipelineSummary)
	transactionRoutes.GET("/:id", transactionHandler.GetByID)
	transactionRoutes.PUT("/:id", transactionHandler.Update)
	transactionRoutes.PUT("/:id/client", transactionHandler.UpdateClient)
	transactionRoutes.PUT("/:id/notes", transactionHandler.SetNotes)
	transactionRoutes.PUT("/:id/closing-date", transactionHandler.SetClosingDate)
	transactionRoutes.POST("/:id/activate", transactionHandler.Activate)
	transactionRoutes.POST("/:id/under-contract", transactionHandler.MarkUnderContract)
	transactionRoutes.POST("/:id/clear-to-close", transactionHandler.MarkClearToClose)
	transactionRoutes.POST("/:id/close", transactionHandler.Close)
	transactionRoutes.POST("/:id/cancel", transactionHandler.Cancel)
	transactionRoutes.POST("/:id/withdraw", transactionHandler.Withdraw)
	transactionRoutes.PUT("/:id/coordinator", transactionHandler.AssignCoordinator)
	transactionRoutes.DELETE("/:id/coordinator", transactionHandler.UnassignCoordinator)
	transactionRoutes.POST("/:id/slack-channel", transactionHandler.ProvisionSlackChannel)

	// CMA routes
	cmaRoutes := router.NewDomainGroup("cma", "/cmas")
	cmaRoutes.POST("", cmaHandler.Create)
	cmaRoutes.GET("", cmaHandler.List)
	cmaRoutes.GET("/:id", cmaHandler.GetByID)
	cmaRoutes.PUT("/:id", cmaHandler.Update)
	cmaRoutes.DELETE("/:id", cmaHandler.Delete)
	cmaRoutes.PUT("/:id/notes", cmaHandler.SetNotes)
	cmaRoutes.POST("/:id/comparables", cmaHandler.AddComparable)
	cmaRoutes.PUT("/:id/comparables/:comp_id", cmaHandler.UpdateComparable)
	cmaRoutes.DELETE("/:id/comparables/:comp_id", cmaHandler.RemoveComparable)
	cmaRoutes.PUT("/:id/comparables/:comp_id/adjustments", cmaHandler.SetAdjustments)
	cmaRoutes.PUT("/:id/comparable-order", cmaHandler.ReorderComparables)
	cmaRoutes.GET("/:id/statistics", cmaHandler.Statistics)
	cmaRoutes.PUT("/:id/price-range", cmaHandler.SetPriceRange)
	cmaRoutes.POST("/:id/price-range/suggest", cmaHandler.ApplySuggestedRange)
	cmaRoutes.POST("/:id/ready", cmaHandler.MarkReady)
	cmaRoutes.POST("/:id/reopen", cmaHandler.Reopen)
	cmaRoutes.POST("/:id/archive", cmaHandler.Archive)
	cmaRoutes.POST("/:id/duplicate", cmaHandler.Duplicate)

	// Report export and sharing
	cmaRoutes.POST("/:id/exports", exportHandler.Request)
	cmaRoutes.GET("/:id/exports", exportHandler.List)
	cmaRoutes.GET("/:id/report/config", reportHandler.GetConfig)
	cmaRoutes.PUT("/:id/report/config", reportHandler.UpdateConfig)
	cmaRoutes.POST("/:id/report/share", reportHandler.Share)
	cmaRoutes.GET("/:id/report/shares", reportHandler.ListShares)

	exportRoutes := router.NewDomainGroup("export", "/exports")
	exportRoutes.GET("/:id", exportHandler.GetByID)
	exportRoutes.GET("/:id/download", exportHandler.DownloadURL)

	// Notification routes
	notificationRoutes := router.NewDomainGroup("notification", "/notifications")
	notificationRoutes.GET("/settings", notificationHandler.GetSettings)
	notificationRoutes.PUT("/settings", notificationHandler.UpdateSettings)
	notificationRoutes.GET("/reminders", notificationHandler.ListReminders)

	// Register all domain groups
	r.Register(authRoutes).
		Register(brokerageRoutes).
		Register(userRoutes).
		Register(teamRoutes).
		Register(transactionRoutes).
		Register(cmaRoutes).
		Register(exportRoutes).
		Register(notificationRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// pipelineMetricsSource feeds the pipeline gauges from the repositories
type pipelineMetricsSource struct {
	txnRepo    transaction.Repository
	exportRepo cma.ReportExportRepository
}

func (p *pipelineMetricsSource) GetOpenTransactionCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return p.txnRepo.CountOpenForTenant(ctx, tenantID)
}

func (p *pipelineMetricsSource) GetPendingExportCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return p.exportRepo.CountPendingForTenant(ctx, tenantID)
}

// activeTenantSource enumerates active brokerages for gauge collection
type activeTenantSource struct {
	brokerageRepo identity.BrokerageRepository
}

func (a *activeTenantSource) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	brokerages, err := a.brokerageRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(brokerages))
	for i := range brokerages {
		ids[i] = brokerages[i].ID
	}
	return ids, nil
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
