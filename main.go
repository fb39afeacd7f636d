package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nahashon-source/globalship-backend/internal/di"
	"github.com/nahashon-source/globalship-backend/internal/middleware"
	"github.com/nahashon-source/globalship-backend/pkg/config"
	"github.com/nahashon-source/globalship-backend/pkg/database"
	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/redis"
	"github.com/nahashon-source/globalship-backend/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	logCfg := &logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting GlobalShip API...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Initialize Redis connection
	redisCfg := &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
	redisClient, err := redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))

	// Build dependency injection container
	container := di.NewContainer(cfg, db, redisClient)

	router := newRouter(cfg, container)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("GlobalShip API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}

// newRouter builds the gin engine. Middleware ordering is load-bearing:
// rate limiting runs before authentication so floods are priced before any
// credential work, and authorization happens inside handlers.
func newRouter(cfg *config.Config, container *di.Container) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	}

	router.Use(middleware.RateLimit(container.Counter, middleware.RateLimitConfig{
		Limit:       cfg.RateLimit.Requests,
		Window:      cfg.RateLimit.Window,
		ExemptPaths: cfg.RateLimit.ExemptPaths,
	}))

	requireAuth := middleware.RequireAuth(container.AuthService)
	requireSuperuser := middleware.RequireSuperuser()

	router.GET("/", container.HealthHandler.Root)
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", container.AuthHandler.Register)
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/refresh", container.AuthHandler.Refresh)

			protected := auth.Group("", requireAuth)
			{
				protected.GET("/me", container.AuthHandler.Me)
				protected.GET("/logout", container.AuthHandler.Logout)
				protected.POST("/logout", container.AuthHandler.Logout)
			}
		}

		v1.POST("/contact", container.ContactHandler.Create)

		users := v1.Group("/users")
		{
			users.GET("/me", requireAuth, container.UserHandler.GetMe)
			users.PUT("/me", requireAuth, container.UserHandler.UpdateMe)
			users.GET("", requireAuth, requireSuperuser, container.UserHandler.List)
		}

		shipments := v1.Group("/shipments")
		{
			shipments.GET("/track/:tracking_number", container.ShipmentHandler.Track)

			shipments.POST("", requireAuth, container.ShipmentHandler.Create)
			shipments.GET("", requireAuth, container.ShipmentHandler.List)
			shipments.GET("/:id", requireAuth, container.ShipmentHandler.Get)
			shipments.PUT("/:id", requireAuth, container.ShipmentHandler.Update)
		}

		events := v1.Group("/events")
		{
			events.GET("/track/:tracking_number/timeline", container.EventHandler.PublicTimeline)

			events.POST("", requireAuth, container.EventHandler.Create)
			events.GET("/:shipment_id/timeline", requireAuth, container.EventHandler.Timeline)
		}

		quotes := v1.Group("/quotes", requireAuth)
		{
			quotes.POST("", container.QuoteHandler.Create)
			quotes.GET("", container.QuoteHandler.List)
			quotes.GET("/:id", container.QuoteHandler.Get)
			quotes.PUT("/:id", container.QuoteHandler.Update)
		}

		v1.GET("/dashboard/stats", requireAuth, container.DashboardHandler.Stats)

		admin := v1.Group("/admin", requireAuth, requireSuperuser)
		{
			admin.GET("/stats", container.AdminHandler.Stats)
			admin.GET("/users", container.AdminHandler.ListUsers)
			admin.GET("/shipments", container.AdminHandler.ListShipments)
			admin.PUT("/shipments/:id/status", container.AdminHandler.UpdateShipmentStatus)
			admin.GET("/quotes", container.AdminHandler.ListQuotes)
			admin.PUT("/quotes/:id", container.AdminHandler.UpdateQuote)
			admin.GET("/messages", container.AdminHandler.ListMessages)
			admin.PUT("/messages/:id", container.AdminHandler.UpdateMessage)
		}
	}

	return router
}
