// Package pipeline provides the load → partition → render pipeline shared by
// the hyperpart CLI and HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a hypergraph file (hMetis or JSON) or take an inline model
//  2. Partition: configure an engine context and partition the hypergraph
//  3. Render: produce the requested artifacts (partition file, JSON report,
//     DOT, SVG, PNG, PDF)
//
// Partition results and rendered images are cached by content: the key
// covers the hypergraph hash, the engine, its configuration text, the seed,
// k and epsilon. Only runs with an explicit seed are cached, since a
// configuration without one may draw a time-based seed.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	seed := int32(42)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "examples/golden.hgr",
//	    K:       2,
//	    Seed:    &seed,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hyperpart/pkg/cache"
	"github.com/matzehuels/hyperpart/pkg/engine"
	"github.com/matzehuels/hyperpart/pkg/engine/builtin"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	"github.com/matzehuels/hyperpart/pkg/metrics"
	"github.com/matzehuels/hyperpart/pkg/partition"
	"github.com/matzehuels/hyperpart/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultK is the default number of blocks.
	DefaultK = 2

	// DefaultEpsilon is the default allowed imbalance.
	DefaultEpsilon = 0.03

	// DefaultEngine is the engine used when none is named.
	DefaultEngine = engine.DefaultName

	// DefaultPreset is the builtin configuration used when no configuration
	// is given.
	DefaultPreset = "km1_direct"
)

// Cache lifetimes.
const (
	TTLPartition = 30 * 24 * time.Hour
	TTLRender    = 7 * 24 * time.Hour
)

// Format constants for output artifacts.
const (
	FormatPartition = "partition"
	FormatJSON      = "json"
	FormatDOT       = "dot"
	FormatSVG       = "svg"
	FormatPNG       = "png"
	FormatPDF       = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPartition: true,
	FormatJSON:      true,
	FormatDOT:       true,
	FormatSVG:       true,
	FormatPNG:       true,
	FormatPDF:       true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options; exactly one of Input and Hypergraph is required.
	Input      string                 `json:"input,omitempty"`
	Hypergraph *hypergraph.Hypergraph `json:"hypergraph,omitempty"`

	// Partition options
	K       int      `json:"k,omitempty"`
	Epsilon *float64 `json:"epsilon,omitempty"`
	Engine  string   `json:"engine,omitempty"`

	// Engine configuration; at most one of Preset, ConfigPath and ConfigText.
	// Presets exist for the builtin engine only.
	Preset     string `json:"preset,omitempty"`
	ConfigPath string `json:"-"`
	ConfigText string `json:"config,omitempty"`

	// Seed overrides the configuration's seed. Nil keeps it.
	Seed    *int32 `json:"seed,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Formats []string       `json:"formats,omitempty"`
	Render  render.Options `json:"render,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Hypergraph is the partitioned hypergraph.
	Hypergraph *hypergraph.Hypergraph

	// GraphHash is the content hash of the hypergraph.
	GraphHash string

	// Partition is the engine's result.
	Partition *partition.Result

	// Quality is the independent evaluation of the assignment.
	Quality *metrics.Quality

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime      time.Duration
	PartitionTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PartitionHit bool // Whether the partition came from cache
	RenderHit    bool // Whether all images came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: partition, json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePreset checks that name is an embedded builtin configuration.
func ValidatePreset(name string) error {
	if !slices.Contains(builtin.Presets(), name) {
		return errs.New(errs.ErrCodeConfig, "unknown preset %q (available: %v)", name, builtin.Presets())
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForPartition(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one input is given.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Input == "" && o.Hypergraph == nil:
		return errs.New(errs.ErrCodeInvalidInput, "input or hypergraph is required")
	case o.Input != "" && o.Hypergraph != nil:
		return errs.New(errs.ErrCodeInvalidInput, "input and hypergraph are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForPartition applies partition defaults and validates k, epsilon
// and the engine configuration.
func (o *Options) ValidateForPartition() error {
	if o.K == 0 {
		o.K = DefaultK
	}
	if o.Epsilon == nil {
		eps := DefaultEpsilon
		o.Epsilon = &eps
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := errs.ValidateBlocks(o.K); err != nil {
		return err
	}
	if o.K > metrics.MaxBlocks {
		return errs.New(errs.ErrCodeInvalidInput, "number of blocks %d exceeds %d", o.K, metrics.MaxBlocks)
	}
	if err := errs.ValidateImbalance(*o.Epsilon); err != nil {
		return err
	}
	if _, err := engine.Lookup(o.Engine); err != nil {
		return err
	}

	given := 0
	for _, s := range []string{o.Preset, o.ConfigPath, o.ConfigText} {
		if s != "" {
			given++
		}
	}
	if given > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "preset, config path and config text are mutually exclusive")
	}
	if given == 0 {
		if o.Engine != builtin.Name {
			return errs.New(errs.ErrCodeConfig, "engine %q requires a configuration file", o.Engine)
		}
		o.Preset = DefaultPreset
	}
	if o.Preset != "" {
		if o.Engine != builtin.Name {
			return errs.New(errs.ErrCodeConfig, "presets are only available for the %s engine", builtin.Name)
		}
		if err := ValidatePreset(o.Preset); err != nil {
			return err
		}
	}
	if o.ConfigPath != "" {
		return errs.ValidateConfigPath(o.ConfigPath)
	}
	if o.ConfigText != "" {
		return errs.ValidateConfigText(o.ConfigText)
	}
	return nil
}

// Cacheable reports whether results of these options are reproducible and
// may be cached.
func (o *Options) Cacheable() bool { return o.Seed != nil }

// EffectiveEpsilon returns the imbalance, falling back to [DefaultEpsilon].
func (o *Options) EffectiveEpsilon() float64 {
	if o.Epsilon == nil {
		return DefaultEpsilon
	}
	return *o.Epsilon
}

// configText returns the engine configuration text: the preset's, the
// inline text, or the content of ConfigPath.
func (o *Options) configText() (string, error) {
	switch {
	case o.Preset != "":
		return builtin.Preset(o.Preset)
	case o.ConfigPath != "":
		data, err := os.ReadFile(o.ConfigPath)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeConfig, err, "read config %s", o.ConfigPath)
		}
		return string(data), nil
	default:
		return o.ConfigText, nil
	}
}

// PartitionKeyOpts returns cache key options for the partition stage.
func (o *Options) PartitionKeyOpts() (cache.PartitionKeyOpts, error) {
	text, err := o.configText()
	if err != nil {
		return cache.PartitionKeyOpts{}, err
	}
	opts := cache.PartitionKeyOpts{
		Engine:  o.Engine,
		Config:  cache.Hash([]byte(text)),
		K:       o.K,
		Epsilon: o.EffectiveEpsilon(),
	}
	if o.Seed != nil {
		opts.Seed, opts.SeedSet = *o.Seed, true
	}
	return opts, nil
}

// RenderKeyOpts returns cache key options for an image format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	layout, _ := cache.HashJSON(o.Render)
	return cache.RenderKeyOpts{Format: format, Layout: layout}
}
