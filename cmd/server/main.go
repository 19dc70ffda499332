package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	billingapp "github.com/friendserp/custom-clearance/internal/application/billing"
	clearanceapp "github.com/friendserp/custom-clearance/internal/application/clearance"
	identityapp "github.com/friendserp/custom-clearance/internal/application/identity"
	taskapp "github.com/friendserp/custom-clearance/internal/application/task"
	"github.com/friendserp/custom-clearance/internal/infrastructure/auth"
	"github.com/friendserp/custom-clearance/internal/infrastructure/config"
	"github.com/friendserp/custom-clearance/internal/infrastructure/event"
	"github.com/friendserp/custom-clearance/internal/infrastructure/logger"
	"github.com/friendserp/custom-clearance/internal/infrastructure/persistence"
	"github.com/friendserp/custom-clearance/internal/infrastructure/storage"
	"github.com/friendserp/custom-clearance/internal/infrastructure/telemetry"
	"github.com/friendserp/custom-clearance/internal/interfaces/http/handler"
	"github.com/friendserp/custom-clearance/internal/interfaces/http/middleware"
	"github.com/friendserp/custom-clearance/internal/interfaces/http/router"
)

//	@title			Custom Clearance API
//	@version		1.0
//	@description	Customs clearance case tracking backend.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting clearance backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize repositories
	clearanceRepo := persistence.NewGormClearanceRepository(db.DB)
	templateRepo := persistence.NewGormTemplateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	todoRepo := persistence.NewGormTodoRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationLogRepository(db.DB)

	// Initialize event bus and subscribe the payment mirror handlers.
	// Invoice mutations publish events; the mirror keeps the clearance
	// payment fields consistent with the linked invoice.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(clearanceapp.NewInvoiceStatusChangedHandler(clearanceRepo, log))
	eventBus.Subscribe(clearanceapp.NewInvoiceCancelledHandler(clearanceRepo, log))

	// Initialize authentication
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for token blacklist", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing Redis blacklist", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by Redis",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// Initialize object storage for document attachments
	var objectStorage clearanceapp.ObjectStorageService
	switch cfg.Storage.Provider {
	case "s3":
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage backed by S3", zap.String("bucket", cfg.Storage.Bucket))
	default:
		objectStorage = storage.NewMemoryObjectStorage()
		log.Warn("Using in-memory object storage, attachments will not survive restarts")
	}

	// Initialize application services
	accessResolver := clearanceapp.NewAccessResolver(customerRepo)
	clearanceService := clearanceapp.NewClearanceService(
		clearanceRepo,
		templateRepo,
		invoiceRepo,
		customerRepo,
		commentRepo,
		todoRepo,
		notificationRepo,
		accessResolver,
		eventBus,
		log,
	)
	attachmentService := clearanceapp.NewAttachmentService(
		clearanceRepo,
		accessResolver,
		objectStorage,
		cfg.Storage.PresignExpiry,
		log,
	)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, eventBus, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	inboxService := taskapp.NewInboxService(todoRepo, notificationRepo, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	clearanceHandler := handler.NewClearanceHandler(clearanceService, attachmentService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	inboxHandler := handler.NewInboxHandler(inboxService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report json field names in validation errors
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, tracing, CORS, body size limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
		},
		Logger: log,
	}))
	r.Register(authHandler).
		Register(clearanceHandler).
		Register(invoiceHandler).
		Register(inboxHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
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
