package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type ServerConfig struct {
	Address    string        `mapstructure:"address"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

func (config ServerConfig) validate() error {
	var errs []error

	if config.Address == "" {
		errs = append(errs, fmt.Errorf("missing variable: server address"))
	}
	if config.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("session_ttl must not be negative"))
	}
	return errors.Join(errs...)
}

func (config ServerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("server.address", "SERVER_ADDRESS"),
		v.BindEnv("server.session_ttl", "SERVER_SESSION_TTL"),
	)
}
