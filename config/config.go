package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL       string `envconfig:"DATABASE_URL"        required:"true"`
	Port              string `envconfig:"PORT"                default:":8080"`
	LogLevel          string `envconfig:"LOG_LEVEL"           default:"info"`
	RedisAddr         string `envconfig:"REDIS_ADDR"          default:""`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"      default:""`
	SessionTTLMinutes int    `envconfig:"SESSION_TTL_MINUTES" default:"60"`
	CORSOrigins       string `envconfig:"CORS_ORIGINS"        default:"*"`
	AdminUsername     string `envconfig:"ADMIN_USERNAME"      default:"admin"`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD"      default:"password123"`
	SeedDemoData      bool   `envconfig:"SEED_DEMO_DATA"      default:"false"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		if err := envconfig.Process("", &config); err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, LogLevel=%s", config.Port, config.LogLevel)
		if config.RedisAddr != "" {
			logger.Info("Configuration loaded: Redis session store enabled")
		}
	})
	return &config
}
