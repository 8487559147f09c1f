// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vaultcore-ledger/pkg/db"
)

// AppConfig holds all application-wide configuration.
type AppConfig struct {
	ServerPort string        `mapstructure:"server_port"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	OTPTTL     time.Duration `mapstructure:"otp_ttl"`
	DB         db.Config     `mapstructure:"db"`
}

// LoadConfig reads configuration from ./configs/config.yaml, with environment
// variables (VAULTCORE_SERVER_PORT, VAULTCORE_DB_HOST, ...) taking precedence.
// A missing config file is fine; missing required values are not.
func LoadConfig() (*AppConfig, error) {
	v := viper.New()
	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("VAULTCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("otp_ttl", "5m")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "vaultcore")
	v.SetDefault("db.password", "vaultcore")
	v.SetDefault("db.dbname", "vaultcore")
	v.SetDefault("db.sslmode", "disable")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = v.GetString("jwt_secret")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret is required (set VAULTCORE_JWT_SECRET)")
	}
	return &cfg, nil
}
