package builtin

import (
	"embed"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Partitioning modes.
const (
	ModeDirect    = "direct"
	ModeRecursive = "recursive"
)

// Objectives.
const (
	ObjectiveKM1 = "km1"
	ObjectiveCut = "cut"
)

// Refinement algorithms.
const (
	RefineFM               = "fm"
	RefineLabelPropagation = "label_propagation"
	RefineNone             = "none"
)

// Config is the decoded form of the engine's TOML configuration.
// Keys missing from a configuration keep their [DefaultConfig] value.
type Config struct {
	Mode      string `toml:"mode"`
	Objective string `toml:"objective"`
	// Seed < 0 selects a time-based seed.
	Seed int64 `toml:"seed"`

	Coarsening          CoarseningConfig `toml:"coarsening"`
	InitialPartitioning InitialConfig    `toml:"initial_partitioning"`
	Refinement          RefinementConfig `toml:"refinement"`
}

// CoarseningConfig controls the clustering phase.
type CoarseningConfig struct {
	// Coarsening stops once at most multiplier*k vertices remain.
	ContractionLimitMultiplier int `toml:"contraction_limit_multiplier"`
	// A cluster may weigh at most this fraction of the perfectly balanced block weight.
	MaxClusterWeightFraction float64 `toml:"max_cluster_weight_fraction"`
	// Coarsening stops when a level shrinks the vertex count by less than this factor.
	MinShrinkFactor float64 `toml:"min_shrink_factor"`
}

// InitialConfig controls initial partitioning of the coarsest hypergraph.
type InitialConfig struct {
	Runs int `toml:"runs"`
	// Instances with k^n <= ExhaustiveLimit are solved by enumeration.
	ExhaustiveLimit int `toml:"exhaustive_limit"`
}

// RefinementConfig controls local search during uncoarsening.
type RefinementConfig struct {
	Algorithm   string `toml:"algorithm"`
	MaxPasses   int    `toml:"max_passes"`
	FMStopAfter int    `toml:"fm_stop_after"`
}

// DefaultConfig returns the configuration of the km1_direct preset.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeDirect,
		Objective: ObjectiveKM1,
		Seed:      -1,
		Coarsening: CoarseningConfig{
			ContractionLimitMultiplier: 160,
			MaxClusterWeightFraction:   0.25,
			MinShrinkFactor:            1.01,
		},
		InitialPartitioning: InitialConfig{
			Runs:            20,
			ExhaustiveLimit: 1 << 16,
		},
		Refinement: RefinementConfig{
			Algorithm:   RefineFM,
			MaxPasses:   8,
			FMStopAfter: 100,
		},
	}
}

// ParseConfig decodes TOML text on top of [DefaultConfig]. Unknown keys and
// out-of-range values are errors.
func ParseConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the configuration file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(string(data))
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDirect, ModeRecursive:
	default:
		return fmt.Errorf("mode: unknown value %q", c.Mode)
	}
	switch c.Objective {
	case ObjectiveKM1, ObjectiveCut:
	default:
		return fmt.Errorf("objective: unknown value %q", c.Objective)
	}
	switch c.Refinement.Algorithm {
	case RefineFM, RefineLabelPropagation, RefineNone:
	default:
		return fmt.Errorf("refinement.algorithm: unknown value %q", c.Refinement.Algorithm)
	}
	if c.Coarsening.ContractionLimitMultiplier < 1 {
		return fmt.Errorf("coarsening.contraction_limit_multiplier must be >= 1")
	}
	if f := c.Coarsening.MaxClusterWeightFraction; !(f > 0) {
		return fmt.Errorf("coarsening.max_cluster_weight_fraction must be > 0")
	}
	if !(c.Coarsening.MinShrinkFactor >= 1) {
		return fmt.Errorf("coarsening.min_shrink_factor must be >= 1")
	}
	if c.InitialPartitioning.Runs < 1 {
		return fmt.Errorf("initial_partitioning.runs must be >= 1")
	}
	if c.InitialPartitioning.ExhaustiveLimit < 0 {
		return fmt.Errorf("initial_partitioning.exhaustive_limit must be >= 0")
	}
	if c.Refinement.MaxPasses < 0 {
		return fmt.Errorf("refinement.max_passes must be >= 0")
	}
	if c.Refinement.FMStopAfter < 1 {
		return fmt.Errorf("refinement.fm_stop_after must be >= 1")
	}
	return nil
}

//go:embed presets/*.toml
var presetFS embed.FS

// Presets returns the names of the embedded configurations.
func Presets() []string {
	entries, _ := presetFS.ReadDir("presets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	slices.Sort(names)
	return names
}

// Preset returns the TOML text of an embedded configuration.
func Preset(name string) (string, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return "", fmt.Errorf("unknown preset %q (available: %v)", name, Presets())
	}
	return string(data), nil
}
