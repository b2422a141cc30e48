package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsProduction() bool {
	return s.Mode == "production" || s.Mode == "release"
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver          string `mapstructure:"driver"`
	DSN             string `mapstructure:"dsn"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the explicit DSN when set, otherwise one built for the driver.
func (d *DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "sqlite" {
		if d.Database == "" {
			return "file::memory:?cache=shared"
		}
		return d.Database
	}
	// clientFoundRows makes RowsAffected count matched rows, so an update
	// that changes nothing is not mistaken for a missing row.
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	// Algorithm selects the hasher for new hashes: "argon2id" or "bcrypt".
	Algorithm  string `mapstructure:"algorithm"`
	MinLength  int    `mapstructure:"min_length"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
	// Argon2 work factor.
	Argon2Time    uint32 `mapstructure:"argon2_time"`
	Argon2Memory  uint32 `mapstructure:"argon2_memory_kib"`
	Argon2Threads uint8  `mapstructure:"argon2_threads"`
}

type JWTConfig struct {
	AccessSecret     string `mapstructure:"access_secret"`
	RefreshSecret    string `mapstructure:"refresh_secret"`
	Algorithm        string `mapstructure:"algorithm"`
	RefreshAlgorithm string `mapstructure:"refresh_algorithm"`
	Issuer           string `mapstructure:"issuer"`
	Audience         string `mapstructure:"audience"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays   int    `mapstructure:"refresh_exp_days"`
}

func (j *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessExpMinutes) * time.Minute
}

func (j *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpDays) * 24 * time.Hour
}

// RefreshAlg falls back to the access algorithm when no distinct one is set.
func (j *JWTConfig) RefreshAlg() string {
	if j.RefreshAlgorithm != "" {
		return j.RefreshAlgorithm
	}
	return j.Algorithm
}

type SessionConfig struct {
	// MaxActivePerUser caps sessions per user; zero or less disables pruning.
	MaxActivePerUser int `mapstructure:"max_active_per_user"`
	// CleanupIntervalMinutes schedules the expired-session sweep; zero disables it.
	CleanupIntervalMinutes int `mapstructure:"cleanup_interval_minutes"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Session  SessionConfig  `mapstructure:"session"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	AuthRequests  int  `mapstructure:"auth_requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

func (r *RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

type ModerationConfig struct {
	BlockThreshold float64 `mapstructure:"block_threshold"`
	ModelVersion   string  `mapstructure:"model_version"`
	// LexiconPath overrides the embedded lexicon when set.
	LexiconPath string `mapstructure:"lexicon_path"`
	// AllowedLanguages are ISO 639-1 codes accepted by the language gate.
	AllowedLanguages []string `mapstructure:"allowed_languages"`
}

var supportedAlgorithms = map[string]struct{}{
	"HS256": {},
	"HS384": {},
	"HS512": {},
}

// Built-in signing secrets for local development; Validate rejects them in production.
const (
	DevelopmentAccessSecret  = "change-me-access-secret"
	DevelopmentRefreshSecret = "change-me-refresh-secret"
)

// Validate checks the auth settings that would make tokens unsafe or unusable.
func (a *AuthConfig) Validate(production bool) error {
	j := a.JWT
	if j.AccessSecret == "" || j.RefreshSecret == "" {
		return fmt.Errorf("auth.jwt: access and refresh secrets are required")
	}
	if j.AccessSecret == j.RefreshSecret {
		return fmt.Errorf("auth.jwt: access and refresh secrets must differ")
	}
	for _, alg := range []string{j.Algorithm, j.RefreshAlg()} {
		if _, ok := supportedAlgorithms[strings.ToUpper(alg)]; !ok {
			return fmt.Errorf("auth.jwt: unsupported algorithm %q", alg)
		}
	}
	if j.AccessExpMinutes <= 0 || j.RefreshExpDays <= 0 {
		return fmt.Errorf("auth.jwt: token lifetimes must be positive")
	}
	if production && (j.AccessSecret == DevelopmentAccessSecret || j.RefreshSecret == DevelopmentRefreshSecret) {
		return fmt.Errorf("auth.jwt: development secrets are not allowed in production")
	}
	if a.Password.MinLength <= 0 {
		return fmt.Errorf("auth.password: min_length must be positive")
	}
	return nil
}

func (m *ModerationConfig) Validate() error {
	if m.BlockThreshold <= 0 || m.BlockThreshold > 1 {
		return fmt.Errorf("moderation: block_threshold must be in (0, 1], got %v", m.BlockThreshold)
	}
	return nil
}
