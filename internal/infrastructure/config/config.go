package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/unical-dimes/professors/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"rate_limit"`
	Moderation sharedConfig.ModerationConfig `mapstructure:"moderation"`
}

// Validate checks cross-field constraints after unmarshalling.
func (c *Config) Validate() error {
	if err := c.Auth.Validate(c.Server.IsProduction()); err != nil {
		return err
	}
	if err := c.Moderation.Validate(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database: unsupported driver %q", c.Database.Driver)
	}
	return nil
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// legacyEnv maps config keys to the unprefixed variables older deployments export.
var legacyEnv = map[string][]string{
	"auth.jwt.access_secret":           {"AUTH_SECRET_KEY"},
	"auth.jwt.refresh_secret":          {"AUTH_REFRESH_SECRET"},
	"auth.jwt.algorithm":               {"JWT_ALGORITHM"},
	"auth.jwt.issuer":                  {"AUTH_ISSUER"},
	"auth.jwt.audience":                {"AUTH_AUDIENCE"},
	"auth.jwt.access_exp_minutes":      {"ACCESS_TOKEN_EXPIRE_MINUTES"},
	"auth.jwt.refresh_exp_days":        {"REFRESH_TOKEN_EXPIRE_DAYS"},
	"auth.password.min_length":         {"PASSWORD_MIN_LENGTH"},
	"auth.session.max_active_per_user": {"MAX_ACTIVE_SESSIONS_PER_USER"},
	"auth.admin.email":                 {"DEFAULT_ADMIN_EMAIL"},
	"auth.admin.password":              {"DEFAULT_ADMIN_PASSWORD"},
	"moderation.block_threshold":       {"MODERATION_BLOCK_THRESHOLD"},
	"database.dsn":                     {"DATABASE_URL", "DB_DSN"},
	"server.allowed_origins":           {"ALLOWED_ORIGINS"},
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults and environment apply.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("PROFESSORS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = cfg
	appConfigMu.Unlock()

	return cfg, nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// ALLOWED_ORIGINS arrives as one comma-separated string.
	cfg.Server.AllowedOrigins = splitAndTrim(strings.Join(cfg.Server.AllowedOrigins, ","))
	cfg.Auth.JWT.Algorithm = strings.ToUpper(cfg.Auth.JWT.Algorithm)
	cfg.Auth.JWT.RefreshAlgorithm = strings.ToUpper(cfg.Auth.JWT.RefreshAlgorithm)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func bindLegacyEnv(v *viper.Viper) error {
	for key, names := range legacyEnv {
		prefixed := "PROFESSORS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		args := append([]string{key, prefixed}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout_seconds", 30)

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "professors")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.auto_migrate", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.password.algorithm", "argon2id")
	v.SetDefault("auth.password.min_length", 12)
	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.password.argon2_time", 3)
	v.SetDefault("auth.password.argon2_memory_kib", 64*1024)
	v.SetDefault("auth.password.argon2_threads", 2)
	v.SetDefault("auth.jwt.access_secret", sharedConfig.DevelopmentAccessSecret)
	v.SetDefault("auth.jwt.refresh_secret", sharedConfig.DevelopmentRefreshSecret)
	v.SetDefault("auth.jwt.algorithm", "HS256")
	v.SetDefault("auth.jwt.refresh_algorithm", "")
	v.SetDefault("auth.jwt.issuer", "unical-dimes-professors")
	v.SetDefault("auth.jwt.audience", "unical-dimes-professors-api")
	v.SetDefault("auth.jwt.access_exp_minutes", 15)
	v.SetDefault("auth.jwt.refresh_exp_days", 7)
	v.SetDefault("auth.session.max_active_per_user", 5)
	v.SetDefault("auth.session.cleanup_interval_minutes", 60)
	v.SetDefault("auth.admin.email", "admin@example.com")
	v.SetDefault("auth.admin.password", "ChangeMe!12345!!")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.auth_requests", 20)
	v.SetDefault("rate_limit.window_seconds", 60)

	// Moderation defaults
	v.SetDefault("moderation.block_threshold", 0.55)
	v.SetDefault("moderation.model_version", "local-heuristic-v1")
	v.SetDefault("moderation.lexicon_path", "")
	v.SetDefault("moderation.allowed_languages", []string{"en", "it"})
}
