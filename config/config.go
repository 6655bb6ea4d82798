package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultJWTSecret = "your_secret_key_here"

type Config struct {
	Port        string
	DB          DBConfig
	Redis       RedisConfig
	JWTSecret   string
	TokenTTL    time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	LogFile     string
	LogLevel    string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Addr     string
	Password string
}

// Enabled reports whether a redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads the process environment, after merging an optional .env file.
func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no_env_file", zap.Error(err))
	}

	cfg := &Config{
		Port: getEnv("PORT", "5000"),
		DB: DBConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "med_management"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 10, log),
			AutoMigrate:  getBool("DB_AUTO_MIGRATE", false, log),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:    getDuration("TOKEN_TTL", 24*time.Hour, log),
		CacheTTL:    getDuration("CACHE_TTL", 30*time.Second, log),
		RateLimit:   getInt("RATE_LIMIT", 20, log),
		RateWindow:  getDuration("RATE_WINDOW", time.Minute, log),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogFile:     getEnv("LOG_FILE", "./logs/app.log"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Warn("jwt_secret_default", zap.String("key", "JWT_SECRET"))
	}

	return cfg
}

// DSN renders the postgres connection string.
func (d DBConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + d.Port +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int, log *zap.Logger) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("config_invalid_int", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool, log *zap.Logger) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("config_invalid_bool", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration, log *zap.Logger) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn("config_invalid_duration", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
