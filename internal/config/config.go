package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	App      AppConfig      // Общие настройки приложения
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к БД
	JWT      JWTConfig      // Настройки JWT авторизации
	Redis    RedisConfig    // Настройки Redis для realtime уведомлений
	Notify   NotifyConfig   // Настройки доставки уведомлений
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string   `envconfig:"SERVER_PORT" default:"8080"`
	Host           string   `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"nexus"`
	Password    string `envconfig:"DB_PASSWORD" default:"nexus_pass"`
	Name        string `envconfig:"DB_NAME" default:"nexus"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// RedisConfig содержит настройки Redis (пустой адрес отключает realtime уведомления)
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// NotifyConfig содержит настройки фоновой доставки уведомлений из outbox
type NotifyConfig struct {
	PollInterval time.Duration `envconfig:"NOTIFY_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"NOTIFY_BATCH_SIZE" default:"50"`
	MaxAttempts  int           `envconfig:"NOTIFY_MAX_ATTEMPTS" default:"8"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (j JWTConfig) GetExpiration() time.Duration {
	return time.Duration(j.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Enabled сообщает, настроен ли Redis
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

// Validate проверяет значения, которые envconfig не может проверить сам
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Notify.BatchSize <= 0 {
		return fmt.Errorf("NOTIFY_BATCH_SIZE must be positive")
	}
	if c.Notify.MaxAttempts <= 0 {
		return fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if c.Notify.PollInterval <= 0 {
		return fmt.Errorf("NOTIFY_POLL_INTERVAL must be positive")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	return nil
}

// Load читает конфигурацию из переменных окружения.
// Файл .env в рабочей директории подхватывается, если он есть.
func Load() (*Config, error) {
	// Missing .env is fine: production passes plain environment variables
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
