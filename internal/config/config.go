package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	adaptermiddleware "access-console/internal/adapters/http/middleware"
)

const (
	SeedDefault = "default"
	SeedRandom  = "random"
	SeedFile    = "file"
	SeedDynamo  = "dynamodb"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	AuthMode        string `envconfig:"AUTH_MODE" default:"none"`
	AuthJWTSecret   string `envconfig:"AUTH_JWT_SECRET"`
	SeedSource      string `envconfig:"SEED_SOURCE" default:"default"`
	SeedFile        string `envconfig:"SEED_FILE"`
	SeedRandomCount int    `envconfig:"SEED_RANDOM_COUNT" default:"20"`
	SeedRandomSeed  uint64 `envconfig:"SEED_RANDOM_SEED" default:"1"`
	SeedTable       string `envconfig:"SEED_TABLE"`
	AWSRegion       string `envconfig:"AWS_REGION"`
	XRaySegment     string `envconfig:"XRAY_SEGMENT" default:"access-console"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	mode, err := adaptermiddleware.ParseAuthMode(c.AuthMode)
	if err != nil {
		return err
	}
	if mode == adaptermiddleware.ModeJWT && c.AuthJWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required for jwt auth mode")
	}
	switch c.SeedSource {
	case SeedDefault:
	case SeedRandom:
		if c.SeedRandomCount < 0 {
			return errors.New("SEED_RANDOM_COUNT must not be negative")
		}
	case SeedFile:
		if c.SeedFile == "" {
			return errors.New("SEED_FILE is required for file seed source")
		}
	case SeedDynamo:
		if c.SeedTable == "" || c.AWSRegion == "" {
			return errors.New("SEED_TABLE and AWS_REGION are required for dynamodb seed source")
		}
	default:
		return fmt.Errorf("unknown SEED_SOURCE %q", c.SeedSource)
	}
	return nil
}
