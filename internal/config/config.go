package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	ServerAddress      string
	BackendBaseURL     string
	JWTSecret          string
	BackendTimeout     time.Duration
	ViewIdleTTL        time.Duration
	ViewSweepSpec      string
	CORSAllowedOrigins []string
	LogLevel           string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddress:      getEnv("SERVER_ADDRESS", ":8080"),
		BackendBaseURL:     getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		BackendTimeout:     getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
		ViewIdleTTL:        getEnvDuration("VIEW_IDLE_TTL", 30*time.Minute),
		ViewSweepSpec:      getEnv("VIEW_SWEEP_SPEC", "@every 1m"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// NewLogger builds the process logger: JSON at the configured level, or a
// console development logger when the level is debug.
func NewLogger(level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "debug") {
		return zap.NewDevelopment()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var res []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
