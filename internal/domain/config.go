package domain

// Config represents the workspace configuration loaded from scimcheck.yaml.
type Config struct {
	Masking  MaskingConfig
	Defaults DefaultsConfig
	Paths    PathsConfig
}

type MaskingConfig struct {
	Enabled bool
}

type DefaultsConfig struct {
	Environment string
	Parallel    int
}

type PathsConfig struct {
	ScenariosDir    string
	EnvironmentsDir string
	ReportsDir      string
}

// DefaultConfig provides sane defaults if scimcheck.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Masking: MaskingConfig{Enabled: true},
		Defaults: DefaultsConfig{
			Environment: "local",
			Parallel:    4,
		},
		Paths: PathsConfig{
			ScenariosDir:    "scenarios",
			EnvironmentsDir: "env",
			ReportsDir:      "reports",
		},
	}
}
