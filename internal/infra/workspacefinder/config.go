package workspacefinder

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ltsch/scimcheck/internal/domain"
)

// LoadConfig loads scimcheck.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "scimcheck.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Scimcheck.Masking.Enabled != nil {
		cfg.Masking.Enabled = *y.Scimcheck.Masking.Enabled
	}
	if y.Scimcheck.Defaults.Env != "" {
		cfg.Defaults.Environment = y.Scimcheck.Defaults.Env
	}
	if y.Scimcheck.Defaults.Parallel > 0 {
		cfg.Defaults.Parallel = y.Scimcheck.Defaults.Parallel
	}
	if y.Scimcheck.Paths.ScenariosDir != "" {
		cfg.Paths.ScenariosDir = y.Scimcheck.Paths.ScenariosDir
	}
	if y.Scimcheck.Paths.EnvironmentsDir != "" {
		cfg.Paths.EnvironmentsDir = y.Scimcheck.Paths.EnvironmentsDir
	}
	if y.Scimcheck.Paths.ReportsDir != "" {
		cfg.Paths.ReportsDir = y.Scimcheck.Paths.ReportsDir
	}

	return cfg, nil
}

type yamlConfig struct {
	Scimcheck struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Env      string `yaml:"env"`
			Parallel int    `yaml:"parallel"`
		} `yaml:"defaults"`

		Paths struct {
			ScenariosDir    string `yaml:"scenarios_dir"`
			EnvironmentsDir string `yaml:"environments_dir"`
			ReportsDir      string `yaml:"reports_dir"`
		} `yaml:"paths"`
	} `yaml:"scimcheck"`
}
