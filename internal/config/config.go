package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/TobiSchelling/waterwise/internal/region"
	"github.com/TobiSchelling/waterwise/internal/water"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Input      Input      `yaml:"input"`
	Columns    Columns    `yaml:"columns"`
	Thresholds Thresholds `yaml:"thresholds"`
	Regions    Regions    `yaml:"regions"`
	Output     Output     `yaml:"output"`
	Logging    Logging    `yaml:"logging"`
}

type Input struct {
	Path  string `yaml:"path"`
	Table string `yaml:"table"`
	Sheet string `yaml:"sheet"`
}

type Columns struct {
	SupplierName   string `yaml:"supplier_name" validate:"required"`
	ResidentialUse string `yaml:"residential_use" validate:"required"`
	PotableUse     string `yaml:"potable_use" validate:"required"`
	RGPCD          string `yaml:"rgpcd" validate:"required"`
	Percentile90   string `yaml:"percentile_90"`
	CostOfService  string `yaml:"cost_of_service"`
}

type Thresholds struct {
	OutlierRGPCD      float64 `yaml:"outlier_rgpcd" validate:"gt=0"`
	EfficiencyPercent float64 `yaml:"efficiency_percent" validate:"gt=0,lte=100"`
	FallbackMedian    float64 `yaml:"fallback_median" validate:"gt=0"`
	DaysPerYear       float64 `yaml:"days_per_year" validate:"gt=0"`
	TopN              int     `yaml:"top_n" validate:"gt=0"`
}

type Regions struct {
	Southern []string `yaml:"southern" validate:"dive,required"`
	Northern []string `yaml:"northern" validate:"dive,required"`
}

type Output struct {
	Path     string   `yaml:"path"`
	Format   string   `yaml:"format" validate:"oneof=text markdown html"`
	Sections []string `yaml:"sections"`
}

type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ConfigDir returns the XDG config directory for waterwise.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "waterwise")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/waterwise/config.yaml > ./config.yaml.
// It returns "" when no file exists and none was requested; callers then use
// the built-in defaults.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	cols := water.DefaultColumns
	return &Config{
		Columns: Columns{
			SupplierName:   cols.SupplierName,
			ResidentialUse: cols.ResidentialUse,
			PotableUse:     cols.PotableUse,
			RGPCD:          cols.RGPCD,
			Percentile90:   cols.Percentile90,
			CostOfService:  cols.CostOfService,
		},
		Thresholds: Thresholds{
			OutlierRGPCD:      1000,
			EfficiencyPercent: 5,
			FallbackMedian:    80,
			DaysPerYear:       water.DaysPerYear,
			TopN:              10,
		},
		Regions: Regions{
			Southern: append([]string(nil), region.DefaultSouthern...),
			Northern: append([]string(nil), region.DefaultNorthern...),
		},
		Output: Output{
			Path:   "water_use_summary.txt",
			Format: "text",
		},
		Logging: Logging{Level: "INFO"},
	}
}

var validate = validator.New()

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// WaterColumns converts the column section to the pipeline's column set.
func (c *Config) WaterColumns() water.Columns {
	return water.Columns{
		SupplierName:   c.Columns.SupplierName,
		ResidentialUse: c.Columns.ResidentialUse,
		PotableUse:     c.Columns.PotableUse,
		RGPCD:          c.Columns.RGPCD,
		Percentile90:   c.Columns.Percentile90,
		CostOfService:  c.Columns.CostOfService,
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
