package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hyperpart/pkg/cache"
	errs "github.com/matzehuels/hyperpart/pkg/errors"
	"github.com/matzehuels/hyperpart/pkg/hypergraph"
	hgio "github.com/matzehuels/hyperpart/pkg/io"
	"github.com/matzehuels/hyperpart/pkg/metrics"
	"github.com/matzehuels/hyperpart/pkg/observability"
	"github.com/matzehuels/hyperpart/pkg/partition"
	"github.com/matzehuels/hyperpart/pkg/render"
	"github.com/matzehuels/hyperpart/pkg/resource"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger and resource
// controller. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Controller accounts for engine handles; nil uses the process-wide
	// default of package partition.
	Controller *resource.Controller
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → partition → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	hg, err := Load(opts)
	if err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(hg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "hash hypergraph")
	}
	result.Hypergraph = hg
	result.GraphHash = hash
	result.Stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded hypergraph",
		"vertices", hg.NumVertices,
		"hyperedges", hg.NumHyperedges,
		"pins", hg.NumPins(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Partition
	partStart := time.Now()
	res, hit, err := r.PartitionWithCacheInfo(ctx, hg, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Partition = res
	result.Stats.PartitionTime = time.Since(partStart)
	result.CacheInfo.PartitionHit = hit

	q, err := metrics.Evaluate(hg, res.Assignment, res.K)
	if err != nil {
		return nil, err
	}
	result.Quality = q

	logger.Info("partitioned hypergraph",
		"engine", res.Engine,
		"k", res.K,
		"objective", res.Objective,
		"imbalance", fmt.Sprintf("%.4f", q.Imbalance),
		"cached", hit,
		"duration", result.Stats.PartitionTime)

	// Stage 3: Render
	if len(opts.Formats) == 0 {
		return result, nil
	}
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExecuteBatch runs Execute for every options value with at most parallel
// runs at a time (unlimited if parallel <= 0). Results are returned in input
// order; the first error cancels the remaining runs.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, parallel int) ([]*Result, error) {
	results := make([]*Result, len(batch))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, opts := range batch {
		g.Go(func() error {
			res, err := r.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Load returns the hypergraph named by opts: the inline model (revalidated)
// or the file at opts.Input.
func Load(opts Options) (*hypergraph.Hypergraph, error) {
	if opts.Hypergraph != nil {
		if err := opts.Hypergraph.Validate(); err != nil {
			return nil, err
		}
		return opts.Hypergraph, nil
	}
	return hgio.Import(opts.Input)
}

// PartitionWithCacheInfo partitions hg with caching and returns cache hit
// info. graphHash must be the content hash of hg.
func (r *Runner) PartitionWithCacheInfo(ctx context.Context, hg *hypergraph.Hypergraph, graphHash string, opts Options) (*partition.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPartition(); err != nil {
		return nil, false, err
	}

	var cacheKey string
	if opts.Cacheable() {
		keyOpts, err := opts.PartitionKeyOpts()
		if err != nil {
			return nil, false, err
		}
		cacheKey = r.Keyer.PartitionKey(graphHash, keyOpts)
	}

	// Try cache first (unless refresh requested)
	if cacheKey != "" && !opts.Refresh {
		if res, ok := r.cachedPartition(ctx, cacheKey, hg, opts.K); ok {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypePartition)
			return res, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypePartition)
	}

	res, err := r.Partition(ctx, hg, opts)
	if err != nil {
		return nil, false, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(res); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, TTLPartition); err != nil {
				opts.Logger.Warn("cache store failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, cache.KeyTypePartition, len(data))
			}
		}
	}
	return res, false, nil
}

// cachedPartition returns the cached result under key if it is a k-way
// assignment of hg. Anything else is treated as a miss and recomputed.
func (r *Runner) cachedPartition(ctx context.Context, key string, hg *hypergraph.Hypergraph, k int) (*partition.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var res partition.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	outOfRange := func(b int) bool { return b < 0 || b >= k }
	if res.K != k || len(res.Assignment) != hg.NumVertices || slices.ContainsFunc(res.Assignment, outOfRange) {
		return nil, false
	}
	return &res, true
}

// Partition configures a fresh context and partitions hg without caching.
func (r *Runner) Partition(ctx context.Context, hg *hypergraph.Hypergraph, opts Options) (*partition.Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForPartition(); err != nil {
		return nil, err
	}

	popts := []partition.Option{
		partition.WithEngine(opts.Engine),
		partition.WithLogger(opts.Logger),
	}
	if r.Controller != nil {
		popts = append(popts, partition.WithController(r.Controller))
	}

	c, err := partition.NewContext(popts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	if opts.ConfigPath != "" {
		err = c.ConfigureFromFile(opts.ConfigPath)
	} else {
		var text string
		if text, err = opts.configText(); err == nil {
			err = c.ConfigureFromString(text)
		}
	}
	if err != nil {
		return nil, err
	}
	if opts.Seed != nil {
		c.SetSeed(*opts.Seed)
	}

	h, err := partition.NewHypergraph(opts.K, hg, popts...)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	return h.PartitionContext(ctx, opts.K, opts.EffectiveEpsilon(), c)
}

// images are the formats worth caching; the others are cheap to derive.
var images = []string{FormatSVG, FormatPNG, FormatPDF}

// RenderWithCacheInfo generates artifacts for a partitioned run with
// caching and returns whether every image came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	var partKey string
	if opts.Cacheable() {
		keyOpts, err := opts.PartitionKeyOpts()
		if err != nil {
			return nil, false, err
		}
		partKey = r.Keyer.PartitionKey(result.GraphHash, keyOpts)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := partKey != "" && !opts.Refresh
	imageCount := 0
	var dot string
	var svg []byte

	for _, format := range opts.Formats {
		var renderKey string
		if slices.Contains(images, format) {
			imageCount++
		}
		if partKey != "" && slices.Contains(images, format) {
			renderKey = r.Keyer.RenderKey(partKey, opts.RenderKeyOpts(format))
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, renderKey); err == nil && hit {
					observability.Cache().OnCacheHit(ctx, cache.KeyTypeRender)
					artifacts[format] = data
					continue
				}
				observability.Cache().OnCacheMiss(ctx, cache.KeyTypeRender)
			}
			allCached = false
		}

		if dot == "" && format != FormatPartition && format != FormatJSON {
			dot = render.ToDOT(result.Hypergraph, result.Partition.Assignment, result.Partition.K, opts.Render)
		}
		if svg == nil && (format == FormatSVG || format == FormatPDF) {
			var err error
			if svg, err = render.RenderSVG(ctx, dot); err != nil {
				return nil, false, err
			}
		}

		var data []byte
		var err error
		switch format {
		case FormatPartition:
			var buf bytes.Buffer
			err = hgio.WritePartition(result.Partition.Assignment, &buf)
			data = buf.Bytes()
		case FormatJSON:
			data, err = json.MarshalIndent(NewReport(result), "", "  ")
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.RenderPNG(ctx, dot)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		}
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data

		if renderKey != "" {
			if err := r.Cache.Set(ctx, renderKey, data, TTLRender); err == nil {
				observability.Cache().OnCacheSet(ctx, cache.KeyTypeRender, len(data))
			}
		}
	}

	return artifacts, allCached && imageCount > 0, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
