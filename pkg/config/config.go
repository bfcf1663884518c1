package config

import (
	"errors"
	"io/fs"
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

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Intervention InterventionConfig
	DomainCache  DomainCacheConfig
	Audit        AuditConfig
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
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

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

// InterventionConfig tunes the escalation engine.
type InterventionConfig struct {
	// SuccessThreshold is the mean daily success rate (percent) a Tier-B monitoring
	// period must reach to complete successfully.
	SuccessThreshold float64
	DefaultResetDays int
	DefaultChecklist []string
	Timezone         string
}

// Location resolves the configured timezone, falling back to UTC.
func (c InterventionConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DomainCacheConfig governs caching of the behavioral domain catalog.
type DomainCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuditConfig sizes the asynchronous audit writer.
type AuditConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
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

	threshold := v.GetFloat64("INTERVENTION_SUCCESS_THRESHOLD")
	if threshold <= 0 || threshold > 100 {
		threshold = 80
	}
	resetDays := v.GetInt("INTERVENTION_DEFAULT_RESET_DAYS")
	if resetDays <= 0 {
		resetDays = 3
	}
	cfg.Intervention = InterventionConfig{
		SuccessThreshold: threshold,
		DefaultResetDays: resetDays,
		DefaultChecklist: splitAndTrim(v.GetString("INTERVENTION_DEFAULT_CHECKLIST")),
		Timezone:         v.GetString("INTERVENTION_TIMEZONE"),
	}

	cfg.DomainCache = DomainCacheConfig{
		Enabled: v.GetBool("DOMAIN_CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("DOMAIN_CACHE_TTL"), 15*time.Minute),
	}

	cfg.Audit = AuditConfig{
		Workers:    v.GetInt("AUDIT_WORKERS"),
		MaxRetries: v.GetInt("AUDIT_RETRIES"),
		RetryDelay: parseDuration(v.GetString("AUDIT_RETRY_DELAY"), 500*time.Millisecond),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sma_interventions")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("INTERVENTION_SUCCESS_THRESHOLD", 80)
	v.SetDefault("INTERVENTION_DEFAULT_RESET_DAYS", 3)
	v.SetDefault("INTERVENTION_DEFAULT_CHECKLIST", "Reset conversation completed,Repair action completed,Receiving teacher briefed,Reset goal reviewed with student,Family contacted")
	v.SetDefault("INTERVENTION_TIMEZONE", "UTC")

	v.SetDefault("DOMAIN_CACHE_ENABLED", false)
	v.SetDefault("DOMAIN_CACHE_TTL", "15m")

	v.SetDefault("AUDIT_WORKERS", 2)
	v.SetDefault("AUDIT_RETRIES", 3)
	v.SetDefault("AUDIT_RETRY_DELAY", "500ms")
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
