// Package config overlays process environment settings on top of the
// workspace configuration. Workspace scimcheck.yaml carries the committed
// defaults; SCIMCHECK_* variables (optionally from a .env file) carry the
// per-machine and CI overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ltsch/scimcheck/internal/domain"
)

type envOverrides struct {
	ClientURL   string `env:"SCIMCHECK_CLIENT_URL" validate:"omitempty,url"`
	Environment string `env:"SCIMCHECK_ENV"`
	Parallel    int    `env:"SCIMCHECK_PARALLEL" validate:"omitempty,gte=1,lte=32"`
	ReportsDir  string `env:"SCIMCHECK_REPORTS_DIR"`
	Masking     *bool  `env:"SCIMCHECK_MASKING"`
}

// Overlay applies SCIMCHECK_* environment overrides to cfg and returns the
// resulting config plus the client URL override ("" when unset). A .env file
// in the working directory is loaded first when present.
func Overlay(cfg domain.Config) (domain.Config, string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, "", &domain.OpError{
			Op:   "config.dotenv",
			Kind: domain.KindInvalidConfig,
			Path: ".env",
			Err:  err,
		}
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return cfg, "", &domain.OpError{
			Op:   "config.overlay",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}

	if err := validator.New().Struct(ov); err != nil {
		return cfg, "", &domain.OpError{
			Op:   "config.overlay",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("environment overrides: %w", err),
		}
	}

	if ov.Environment != "" {
		cfg.Defaults.Environment = ov.Environment
	}
	if ov.Parallel > 0 {
		cfg.Defaults.Parallel = ov.Parallel
	}
	if ov.ReportsDir != "" {
		cfg.Paths.ReportsDir = ov.ReportsDir
	}
	if ov.Masking != nil {
		cfg.Masking.Enabled = *ov.Masking
	}

	return cfg, ov.ClientURL, nil
}
