package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=postgres password=postgres dbname=ratings port=5432 sslmode=disable"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	CORSOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Optional redis-backed average cache. Empty address disables it.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Echo reset tokens in the API response. Development convenience only;
	// turn off once a real delivery channel is plugged in.
	ResetTokenInResponse bool `envconfig:"RESET_TOKEN_IN_RESPONSE" default:"true"`
}

func Load() *Config {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logrus.Fatalf("config: %v", err)
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("config: JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		logrus.Fatal("config: JWT_SECRET must be at least 32 characters")
	}

	return &cfg
}
