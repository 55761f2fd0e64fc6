package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront/config"
	"storefront/internal/delivery"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/seed"
	"storefront/internal/session"
	"storefront/internal/usecase"
	"storefront/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting storefront service...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	if err := db.EnsureSchema(database); err != nil {
		logger.Fatalf("FATAL: Failed to ensure database schema: %v", err)
	}

	sessionStore := newSessionStore(cfg, logger)
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute

	// --- Dependency Injection ---
	productRepo := repository.NewPostgresProductRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	adminRepo := repository.NewPostgresAdminRepository(database, logger)
	logger.Info("Repositories initialized.")

	catalogUseCase := usecase.NewCatalogUseCase(productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, logger)
	authUseCase := usecase.NewAuthUseCase(adminRepo, sessionStore, sessionTTL, logger)
	logger.Info("Use cases initialized.")

	if err := seed.Run(adminRepo, productRepo, cfg.AdminUsername, cfg.AdminPassword, cfg.SeedDemoData, logger); err != nil {
		logger.Fatalf("FATAL: Failed to run seed: %v", err)
	}

	productHandler := delivery.NewProductHandler(catalogUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	authHandler := delivery.NewAuthHandler(authUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg)))
	router.RedirectTrailingSlash = false

	authRequired := middleware.AuthRequired(authUseCase, logger)
	productHandler.RegisterRoutes(router, authRequired)
	orderHandler.RegisterRoutes(router, authRequired)
	authHandler.RegisterRoutes(router, authRequired)
	logger.Info("Routes registered.")

	logger.Infof("Starting server on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}

// newSessionStore picks the session backing: Redis when an address is
// configured, the in-process store otherwise.
func newSessionStore(cfg *config.Config, logger *logrus.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("Session store: in-memory")
		return session.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatalf("FATAL: Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}

	logger.Infof("Session store: Redis (%s)", cfg.RedisAddr)
	return session.NewRedisStore(client)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if cfg.CORSOrigins == "*" {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = strings.Split(cfg.CORSOrigins, ",")
	return corsCfg
}
