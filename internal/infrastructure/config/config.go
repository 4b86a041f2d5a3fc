package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	MaxRefreshCount        int
	Issuer                 string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type EventConfig struct {
	HandlerTimeout   time.Duration
	IdempotencyStore string // memory, redis
	IdempotencyTTL   time.Duration
}

type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// SchedulerConfig controls the overdue receivable sweep
type SchedulerConfig struct {
	Enabled              bool
	OverdueSweepInterval time.Duration
}

// Load reads config.toml and BUMA_-prefixed environment variables,
// with the environment taking precedence over the file and the file
// over built-in defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("BUMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Event: EventConfig{
			HandlerTimeout:   v.GetDuration("event.handler_timeout"),
			IdempotencyStore: v.GetString("event.idempotency_store"),
			IdempotencyTTL:   v.GetDuration("event.idempotency_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Scheduler: SchedulerConfig{
			Enabled:              v.GetBool("scheduler.enabled"),
			OverdueSweepInterval: v.GetDuration("scheduler.overdue_sweep_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fallbackStr(target *string, def string) {
	if *target == "" {
		*target = def
	}
}

func fallbackInt(target *int, def int) {
	if *target == 0 {
		*target = def
	}
}

func fallbackDur(target *time.Duration, def time.Duration) {
	if *target == 0 {
		*target = def
	}
}

// applyDefaults fills in zero-valued fields. Defaults apply after env
// resolution, so an explicit zero also falls back to the default.
func applyDefaults(cfg *Config) {
	fallbackStr(&cfg.App.Name, "bumasansor")
	fallbackStr(&cfg.App.Env, "development")
	fallbackStr(&cfg.App.Port, "8080")

	fallbackStr(&cfg.Database.Host, "localhost")
	fallbackInt(&cfg.Database.Port, 5432)
	fallbackStr(&cfg.Database.User, "postgres")
	fallbackStr(&cfg.Database.DBName, "bumasansor")
	fallbackStr(&cfg.Database.SSLMode, "disable")
	fallbackInt(&cfg.Database.MaxOpenConns, 25)
	fallbackInt(&cfg.Database.MaxIdleConns, 5)
	fallbackInt(&cfg.Database.ConnMaxLifetime, 60)
	fallbackInt(&cfg.Database.ConnMaxIdleTime, 30)

	fallbackStr(&cfg.Redis.Host, "localhost")
	fallbackInt(&cfg.Redis.Port, 6379)

	fallbackDur(&cfg.JWT.AccessTokenExpiration, 15*time.Minute)
	fallbackDur(&cfg.JWT.RefreshTokenExpiration, 7*24*time.Hour)
	fallbackInt(&cfg.JWT.MaxRefreshCount, 10)
	fallbackStr(&cfg.JWT.Issuer, "bumasansor")

	fallbackStr(&cfg.Log.Level, "info")
	fallbackStr(&cfg.Log.Format, "console")
	fallbackStr(&cfg.Log.Output, "stdout")

	fallbackDur(&cfg.Event.HandlerTimeout, 30*time.Second)
	fallbackStr(&cfg.Event.IdempotencyStore, "memory")
	fallbackDur(&cfg.Event.IdempotencyTTL, 24*time.Hour)

	fallbackDur(&cfg.HTTP.ReadTimeout, 15*time.Second)
	fallbackDur(&cfg.HTTP.WriteTimeout, 15*time.Second)
	fallbackDur(&cfg.HTTP.IdleTimeout, 60*time.Second)
	fallbackInt(&cfg.HTTP.MaxHeaderBytes, 1<<20)
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	fallbackDur(&cfg.Scheduler.OverdueSweepInterval, time.Hour)
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Event.IdempotencyStore != "memory" && c.Event.IdempotencyStore != "redis" {
		return fmt.Errorf("event.idempotency_store must be 'memory' or 'redis'")
	}

	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

// validateProduction rejects settings that are tolerable in
// development but unsafe on a real deployment
func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	return nil
}

// DSN builds the postgres connection URL, escaping credentials
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisAddr returns the host:port address for the Redis client
func (r *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
