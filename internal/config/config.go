package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env string `env:"APP_ENV" env-default:"development"`

	HTTP   HTTPConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Log    LogConfig
	OpenAI OpenAIConfig
	Events EventsConfig
}

type HTTPConfig struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER" env-default:"postgres"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     string `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"ludicboard"`
	Password string `env:"DB_PASSWORD" env-default:"ludicboard"`
	Name     string `env:"DB_NAME" env-default:"ludicboard"`
	SSLMode  string `env:"DB_SSL_MODE" env-default:"disable"`
	// Path is only used by the sqlite driver.
	Path string `env:"DB_PATH" env-default:"ludicboard.db"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" env-default:"defaultSecret"`
	JWTTTL        time.Duration `env:"JWT_TTL" env-default:"720h"`
	SessionSecret string        `env:"SESSION_SECRET" env-default:"default-secret-key-change-me"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
}

type EventsConfig struct {
	Channel string `env:"EVENTS_CHANNEL" env-default:"ludicboard.events"`
}

// Load reads the configuration from the environment (and .env, if present).
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown APP_ENV: %q", c.Env)
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %q", c.DB.Driver)
	}

	if c.Env == EnvProduction && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "defaultSecret") {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GinMode maps the app environment onto a gin mode.
func (c *Config) GinMode() string {
	switch c.Env {
	case EnvProduction:
		return "release"
	case EnvTest:
		return "test"
	default:
		return "debug"
	}
}

// RedisEnabled reports whether a Redis host was configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
