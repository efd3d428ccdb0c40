package ast2ram

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the read-only set of flags the translator consults (spec.md
// §6 inbound interface). It is constructed once per Translate call and
// never mutated afterward — in particular Provenance is read once at
// Context construction and baked into each relation's representation at
// declaration time rather than re-read per dispatch (spec.md §9 Open
// Question, resolved in DESIGN.md).
type Config struct {
	// Profile wraps each stratum Call in main, and main as a whole, in
	// LogTimer nodes.
	Profile bool `yaml:"profile"`

	// DebugReport adds the "ram-program" debug-report section.
	DebugReport bool `yaml:"debug_report"`

	// AutoSchedule enables the Selinger planner (spec.md §4.4.6); disabled,
	// clauses keep their source (or explicitly planned) atom order.
	AutoSchedule bool `yaml:"auto_schedule"`

	// RamSIPS names the Sideways Information Passing Strategy heuristic;
	// "all-bound" is the only heuristic this translator implements.
	RamSIPS string `yaml:"ram_sips"`

	// Provenance selects provenance-augmented relation representations.
	Provenance bool `yaml:"provenance"`
}

// DefaultConfig returns the translator's zero-configuration defaults.
func DefaultConfig() Config {
	return Config{RamSIPS: "all-bound"}
}

// LoadConfig overlays an optional YAML file on top of DefaultConfig. A
// missing path is not an error: the defaults are returned unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.RamSIPS == "" {
		cfg.RamSIPS = "all-bound"
	}
	return cfg, nil
}
