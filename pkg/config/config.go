package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Attainment AttainmentConfig
	Exports    ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig only carries the verification secret; tokens are issued by the auth service.
type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AttainmentConfig holds institution-wide defaults for the attainment pipeline.
type AttainmentConfig struct {
	ThresholdPercentage     float64
	TargetStudentPercentage float64
	Level2StudentPercentage float64
	StudentLevel2Percentage float64
	PassPercentage          float64

	CacheTTL          time.Duration
	LockTTL           time.Duration
	AutoRecalculate   bool
	RecalculateDelay  time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// ExportsConfig configures report exports and signed downloads.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Attainment = AttainmentConfig{
		ThresholdPercentage:     parseFloat(v.GetString("ATTAINMENT_THRESHOLD_PERCENTAGE"), 50),
		TargetStudentPercentage: parseFloat(v.GetString("ATTAINMENT_TARGET_STUDENT_PERCENTAGE"), 60),
		Level2StudentPercentage: parseFloat(v.GetString("ATTAINMENT_LEVEL2_STUDENT_PERCENTAGE"), 50),
		StudentLevel2Percentage: parseFloat(v.GetString("ATTAINMENT_STUDENT_LEVEL2_PERCENTAGE"), 40),
		PassPercentage:          parseFloat(v.GetString("ATTAINMENT_PASS_PERCENTAGE"), 40),
		CacheTTL:                parseDuration(v.GetString("ATTAINMENT_CACHE_TTL"), 30*time.Minute),
		LockTTL:                 parseDuration(v.GetString("ATTAINMENT_LOCK_TTL"), 30*time.Second),
		AutoRecalculate:         v.GetBool("ATTAINMENT_AUTO_RECALCULATE"),
		RecalculateDelay:        parseDuration(v.GetString("ATTAINMENT_RECALCULATE_DELAY"), 2*time.Second),
		WorkerConcurrency:       v.GetInt("ATTAINMENT_WORKER_CONCURRENCY"),
		WorkerRetries:           v.GetInt("ATTAINMENT_WORKER_RETRIES"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ns_acad")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ATTAINMENT_THRESHOLD_PERCENTAGE", "50")
	v.SetDefault("ATTAINMENT_TARGET_STUDENT_PERCENTAGE", "60")
	v.SetDefault("ATTAINMENT_LEVEL2_STUDENT_PERCENTAGE", "50")
	v.SetDefault("ATTAINMENT_STUDENT_LEVEL2_PERCENTAGE", "40")
	v.SetDefault("ATTAINMENT_PASS_PERCENTAGE", "40")
	v.SetDefault("ATTAINMENT_CACHE_TTL", "30m")
	v.SetDefault("ATTAINMENT_LOCK_TTL", "30s")
	v.SetDefault("ATTAINMENT_AUTO_RECALCULATE", true)
	v.SetDefault("ATTAINMENT_RECALCULATE_DELAY", "2s")
	v.SetDefault("ATTAINMENT_WORKER_CONCURRENCY", 2)
	v.SetDefault("ATTAINMENT_WORKER_RETRIES", 3)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}

	return f
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
