package main

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`
	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	AuthTokenSecret string        `mapstructure:"AUTH_TOKEN_SECRET"`
	AuthTokenTTL    time.Duration `mapstructure:"AUTH_TOKEN_TTL"`

	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.AuthTokenTTL == 0 {
		config.AuthTokenTTL = 7 * 24 * time.Hour
	}

	return &config, nil
}
