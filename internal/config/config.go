package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Storage  StorageConfig
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// DatabaseConfig selects the GORM dialect and its DSN.
type DatabaseConfig struct {
	Driver string // postgres or sqlite
	DSN    string
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// PaymentConfig holds settings for the gateway success callback.
type PaymentConfig struct {
	TokenTTL    time.Duration
	CallbackURL string
}

// RabbitMQConfig holds broker settings. An empty URL disables order events.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RedisConfig holds Redis settings. An empty Addr selects the in-process cart locker.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// StorageConfig holds S3-compatible storage settings for product images.
// An empty Bucket selects the stub storage.
type StorageConfig struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// IsProduction reports whether the app runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Validate checks settings that would otherwise fail late at startup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database DSN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("JWT secret must be changed in production")
	}
	return nil
}

const defaultJWTSecret = "change-me"

// Load reads configuration from an optional config.yaml and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:clothstore.db?cache=shared")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("PAYMENT_TOKEN_TTL", 30*time.Minute)
	v.SetDefault("PAYMENT_CALLBACK_URL", "http://localhost:8080/api/v1/payments/success")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_LOCK_TTL", 10*time.Second)
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PATH_STYLE", true)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Payment: PaymentConfig{
			TokenTTL:    v.GetDuration("PAYMENT_TOKEN_TTL"),
			CallbackURL: v.GetString("PAYMENT_CALLBACK_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  v.GetDuration("CART_LOCK_TTL"),
		},
		Storage: StorageConfig{
			Bucket:       v.GetString("S3_BUCKET"),
			Endpoint:     v.GetString("S3_ENDPOINT"),
			Region:       v.GetString("S3_REGION"),
			AccessKey:    v.GetString("S3_ACCESS_KEY"),
			SecretKey:    v.GetString("S3_SECRET_KEY"),
			UsePathStyle: v.GetBool("S3_PATH_STYLE"),
		},
	}
}
