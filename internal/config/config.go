package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-CarReservation/internal/domain"
	"github.com/m04kA/SMC-CarReservation/pkg/types"
)

// EnvConfigPath переменная окружения с путем к конфигу
const EnvConfigPath = "CONFIG_PATH"

var (
	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Redis     RedisConfig     `toml:"redis"`
	Kafka     KafkaConfig     `toml:"kafka"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

// TokenTTL время жизни токена
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// ScheduleConfig сетка слотов дня
type ScheduleConfig struct {
	DayStart     string `toml:"day_start"`
	DayEnd       string `toml:"day_end"`
	StepMinutes  int    `toml:"step_minutes"`
	AllowedSteps []int  `toml:"allowed_steps"`
}

// SlotsConfig переводит настройки в доменную конфигурацию сетки
func (c ScheduleConfig) SlotsConfig() (domain.SlotsConfig, error) {
	dayStart, err := types.NewTimeStringFromString(c.DayStart)
	if err != nil {
		return domain.SlotsConfig{}, fmt.Errorf("%w: day start: %v", domain.ErrInvalidConfiguration, err)
	}
	dayEnd, err := types.NewTimeStringFromString(c.DayEnd)
	if err != nil {
		return domain.SlotsConfig{}, fmt.Errorf("%w: day end: %v", domain.ErrInvalidConfiguration, err)
	}

	cfg := domain.SlotsConfig{DayStart: dayStart, DayEnd: dayEnd, StepMinutes: c.StepMinutes}
	if err := cfg.Validate(); err != nil {
		return domain.SlotsConfig{}, err
	}
	return cfg, nil
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записей кеша
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
}

// Load читает конфигурацию из TOML файла. Если задан CONFIG_PATH, он имеет приоритет.
func Load(path string) (*Config, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		path = envPath
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("%w: auth.token_ttl_minutes must be positive", ErrInvalidConfig)
	}

	slotsCfg, err := c.Schedule.SlotsConfig()
	if err != nil {
		return fmt.Errorf("%w: schedule: %v", ErrInvalidConfig, err)
	}
	if slotsCfg.StepMinutes < domain.MinStepMinutes || slotsCfg.StepMinutes > domain.MaxStepMinutes {
		return fmt.Errorf("%w: schedule.step_minutes %d out of range", ErrInvalidConfig, slotsCfg.StepMinutes)
	}
	if !slices.Contains(c.Schedule.AllowedSteps, c.Schedule.StepMinutes) {
		return fmt.Errorf("%w: schedule.allowed_steps must contain step_minutes", ErrInvalidConfig)
	}
	for _, step := range c.Schedule.AllowedSteps {
		if step < domain.MinStepMinutes || step > domain.MaxStepMinutes {
			return fmt.Errorf("%w: schedule.allowed_steps contains %d", ErrInvalidConfig, step)
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("%w: kafka.brokers and kafka.topic are required when kafka is enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: rate_limit.requests_per_minute must be positive", ErrInvalidConfig)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "car-reservation",
		},
		Auth: AuthConfig{TokenTTLMinutes: 24 * 60},
		Schedule: ScheduleConfig{
			DayStart:     string(domain.DefaultDayStart),
			DayEnd:       string(domain.DefaultDayEnd),
			StepMinutes:  domain.DefaultStepMinutes,
			AllowedSteps: []int{15, 30, 60},
		},
		Redis: RedisConfig{TTLSeconds: 300},
		Kafka: KafkaConfig{Topic: "reservations.events"},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 20,
			Burst:             5,
		},
	}
}
