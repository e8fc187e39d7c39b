package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type HistoryConfig struct {
	ExpirationDays int `mapstructure:"expiration_days"`
	RecentLimit    int `mapstructure:"recent_limit"`
}

func (config HistoryConfig) validate() error {
	if config.ExpirationDays <= 0 {
		return fmt.Errorf("expiration_days must be greater than zero")
	}
	if config.RecentLimit <= 0 {
		return fmt.Errorf("recent_limit must be greater than zero")
	}
	return nil
}

func (config HistoryConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("history.expiration_days", "HISTORY_EXPIRATION_DAYS")
}
