package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type BackendConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	AccessToken          string        `mapstructure:"access_token"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
	Timeout              time.Duration `mapstructure:"timeout"`
	PageSize             int           `mapstructure:"page_size"`
}

func (config BackendConfig) validate() error {

	var missingFields []string

	if config.BaseURL == "" {
		missingFields = append(missingFields, "base_url")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.PageSize < 1 || config.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100")
	}

	if config.MaxRequestsPerSecond < 0 {
		return fmt.Errorf("max_requests_per_second must be non-negative")
	}

	return nil
}

func (config BackendConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error
	if err := v.BindEnv("backend.base_url", "BACKEND_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("backend.access_token", "BACKEND_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("backend.max_requests_per_second", "BACKEND_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
