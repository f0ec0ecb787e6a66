package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig   // Настройки HTTP сервера
	Database DatabaseConfig // Настройки подключения к БД
	JWT      JWTConfig      // Настройки JWT авторизации
	Redis    RedisConfig    // Настройки Redis для резервирования пинов
	Pin      PinConfig      // Настройки генерации пинов
	CORS     CORSConfig     // Настройки CORS
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"competitions"`
	Password string `envconfig:"DB_PASSWORD" default:"competitions_pass"`
	Name     string `envconfig:"DB_NAME" default:"competitions"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// JWTConfig содержит настройки JWT авторизации
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET" required:"true"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	URL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	PoolSize int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	PinTTL   time.Duration `envconfig:"REDIS_PIN_TTL" default:"1m"`
}

// MaxPinLength совпадает с шириной колонки competitions.pin
const MaxPinLength = 16

// PinConfig содержит настройки генерации пинов соревнований
type PinConfig struct {
	Length   int `envconfig:"PIN_LENGTH" default:"6"`
	Attempts int `envconfig:"PIN_ATTEMPTS" default:"10"`
}

// CORSConfig содержит настройки CORS
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxAge         int      `envconfig:"CORS_MAX_AGE" default:"3600"`
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

// Load читает конфигурацию из переменных окружения.
// Если рядом лежит .env, его значения подхватываются, но не перекрывают
// уже заданные переменные.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("failed to load config: JWT_SECRET must not be empty")
	}
	if cfg.Pin.Length <= 0 || cfg.Pin.Attempts <= 0 {
		return nil, fmt.Errorf("failed to load config: PIN_LENGTH and PIN_ATTEMPTS must be positive")
	}

	if cfg.Pin.Length > MaxPinLength {
		return nil, fmt.Errorf("failed to load config: PIN_LENGTH must not exceed %d", MaxPinLength)
	}

	return &cfg, nil
}
