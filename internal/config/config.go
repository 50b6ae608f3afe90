package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string          `json:"env"`
	Http      HttpConfig      `json:"http"`
	Postgres  PostgresConfig  `json:"postgres"`
	Redis     RedisConfig     `json:"redis"`
	Chat      ChatConfig      `json:"chat"`
	Presence  PresenceConfig  `json:"presence"`
	Retention RetentionConfig `json:"retention"`
	Session   SessionConfig   `json:"session"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	Addr        string        `json:"addr"`
	Password    string        `json:"password,omitempty"`
	DB          int           `json:"db"`
	PoolSize    int           `json:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout"`
	PrefTTL     time.Duration `json:"pref_ttl"`
}

type ChatConfig struct {
	DefaultRadiusMiles float64 `json:"default_radius_miles"`
	DefaultChannel     string  `json:"default_channel"`
	FetchLimit         int     `json:"fetch_limit"`
	SendBuffer         int     `json:"send_buffer"`
}

type PresenceConfig struct {
	TTL           time.Duration `json:"ttl"`
	SweepInterval time.Duration `json:"sweep_interval"`
}

type RetentionConfig struct {
	Window        time.Duration `json:"window"`
	SweepInterval time.Duration `json:"sweep_interval"`
}

type SessionConfig struct {
	CookieName string        `json:"cookie_name"`
	MaxAge     time.Duration `json:"max_age"`
}

func Load() (*Config, error) {

	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "pg-local"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			Database:        getEnv("POSTGRES_DB", "groupdeedo_db"),
			User:            getEnv("POSTGRES_USER", "postgres"),
			Password:        getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: 1 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "redis-local:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			PoolSize:    getEnvInt("REDIS_POOL_SIZE", 10),
			DialTimeout: getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			PrefTTL:     getEnvDuration("REDIS_PREF_TTL", 10*time.Minute),
		},
		Chat: ChatConfig{
			DefaultRadiusMiles: getEnvFloat("CHAT_DEFAULT_RADIUS_MILES", 5),
			DefaultChannel:     getEnv("CHAT_DEFAULT_CHANNEL", "general"),
			FetchLimit:         getEnvInt("CHAT_FETCH_LIMIT", 100),
			SendBuffer:         getEnvInt("CHAT_SEND_BUFFER", 16),
		},
		Presence: PresenceConfig{
			TTL:           getEnvDuration("PRESENCE_TTL", 5*time.Minute),
			SweepInterval: getEnvDuration("PRESENCE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Retention: RetentionConfig{
			Window:        getEnvDuration("RETENTION_WINDOW", 24*time.Hour),
			SweepInterval: getEnvDuration("RETENTION_SWEEP_INTERVAL", 1*time.Hour),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "groupdeedo_session"),
			MaxAge:     getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Duration("presence_ttl", cfg.Presence.TTL),
		slog.Duration("retention_window", cfg.Retention.Window),
	)

	return cfg, nil
}

func (c *Config) Validate() error {

	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}

	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}

	if c.Chat.DefaultRadiusMiles <= 0 {
		return errors.New("CHAT_DEFAULT_RADIUS_MILES must be positive")
	}

	if c.Presence.TTL <= 0 || c.Presence.SweepInterval <= 0 {
		return errors.New("presence ttl and sweep interval must be positive")
	}

	if c.Retention.Window <= 0 || c.Retention.SweepInterval <= 0 {
		return errors.New("retention window and sweep interval must be positive")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
