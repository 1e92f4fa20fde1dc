package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	PasswordHasherArgon2id = "argon2id"
	PasswordHasherBcrypt   = "bcrypt"
)

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Password PasswordConfig
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `env:"HTTP_PORT" env-default:"3333"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	// Empty means every origin is allowed.
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	AutoMigrate    bool          `env:"POSTGRES_AUTO_MIGRATE" env-default:"true"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"tasktracker"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"168h"`
}

type PasswordConfig struct {
	Hasher string `env:"PASSWORD_HASHER" env-default:"argon2id"`
}

// Validate checks the values cleanenv cannot express with tags.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %q", c.Env)
	}

	switch c.Password.Hasher {
	case PasswordHasherArgon2id, PasswordHasherBcrypt:
	default:
		return fmt.Errorf("unknown password hasher: %q", c.Password.Hasher)
	}

	if c.JWT.SigningKey == "" {
		return fmt.Errorf("jwt signing key is empty")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("jwt access token ttl must be positive, got %s", c.JWT.AccessTokenTTL)
	}
	return nil
}

// ConnString builds the pgx connection URL. Credentials are escaped.
func (c PostgresConfig) ConnString() string {
	connURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return connURL.String()
}
