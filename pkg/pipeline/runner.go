package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stoproute/pkg/cache"
	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete load → costs → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	g, stored, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	logger.Info("loaded graph",
		"source", opts.Source(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	return r.finish(ctx, result, g, stored, opts)
}

// ExecuteGraph runs the costs → solve → render stages on a graph the caller
// already holds, such as one decoded from a request body. The source fields
// of opts are ignored.
func (r *Runner) ExecuteGraph(ctx context.Context, g *digraph.Digraph, stored stio.Costs, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCosts(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	return r.finish(ctx, result, g, stored, opts)
}

// finish runs the stages after load and fills in result.
func (r *Runner) finish(ctx context.Context, result *Result, g *digraph.Digraph, stored stio.Costs, opts Options) (*Result, error) {
	logger := r.Logger.With("run", result.RunID[:8])

	// Stage 2: Costs
	costStart := time.Now()
	g, c, err := r.Costs(ctx, g, stored, opts)
	if err != nil {
		return nil, fmt.Errorf("costs: %w", err)
	}
	result.Graph = g
	result.Costs = c
	result.Stats.CostTime = time.Since(costStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 3: Solve
	solveStart := time.Now()
	result.GraphHash, err = GraphHash(g)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	sol, solveHit, err := r.SolveWithCacheInfo(ctx, g, result.GraphHash, c, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Solution = sol
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	stats := sol.Stats()
	logger.Info("solved",
		"variant", sol.Variant,
		"accepted", stats.Accepted,
		"relaxations", stats.Relaxations,
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, sol, result.RunID, opts)
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

// LoadWithCacheInfo loads the graph and returns cache hit info. Road networks
// are converted once and cached by the hash of the file contents; graph files
// and grids are cheap to rebuild and always loaded directly.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*digraph.Digraph, stio.Costs, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, stio.Costs{}, false, err
	}

	source := opts.Source()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	g, c, hit, err := r.load(ctx, opts)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	hooks.OnLoadComplete(ctx, source, nodes, time.Since(start), err)
	return g, c, hit, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*digraph.Digraph, stio.Costs, bool, error) {
	if opts.Roads == "" {
		g, c, err := Load(opts)
		return g, c, false, err
	}

	raw, err := os.ReadFile(opts.Roads)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, stio.Costs{}, false, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", opts.Roads)
		}
		return nil, stio.Costs{}, false, fmt.Errorf("read %s: %w", opts.Roads, err)
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash(raw), cache.GraphKeyOpts{Kind: "roads"})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, _, err := stio.ReadJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return g, stio.Costs{}, true, nil
			}
			// If deserialization fails, fall through to reload
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	g, err := stio.ReadRoadNetwork(bytes.NewReader(raw))
	if err != nil {
		return nil, stio.Costs{}, false, err
	}

	var buf bytes.Buffer
	if err := stio.WriteJSON(g, stio.Costs{}, &buf); err == nil {
		if r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLGraph) == nil {
			observability.Cache().OnCacheSet(ctx, "graph", buf.Len())
		}
	}
	return g, stio.Costs{}, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*digraph.Digraph, stio.Costs, error) {
	g, c, _, err := r.LoadWithCacheInfo(ctx, opts)
	return g, c, err
}

// Costs derives the terminal costs for g. See [DeriveCosts].
func (r *Runner) Costs(ctx context.Context, g *digraph.Digraph, stored stio.Costs, opts Options) (*digraph.Digraph, stio.Costs, error) {
	if err := opts.ValidateForCosts(); err != nil {
		return nil, stio.Costs{}, err
	}
	out, c, err := DeriveCosts(g, stored, opts)
	if err != nil {
		return nil, stio.Costs{}, err
	}
	if dropped := g.NodeCount() - out.NodeCount(); dropped > 0 {
		r.Logger.Warn("dropped nodes no caller reaches", "dropped", dropped, "kept", out.NodeCount())
	}
	if len(opts.Callers) > 0 {
		r.Logger.Debug("derived costs", "callers", len(opts.Callers), "cost_func", opts.CostFunc)
	}
	return out, c, nil
}

// SolveWithCacheInfo runs the solver with caching and returns cache hit info.
// graphHash is the [GraphHash] of g.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *digraph.Digraph, graphHash string, c stio.Costs, opts Options) (*Solution, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	costHash, err := cache.HashJSON(c)
	if err != nil {
		return nil, false, fmt.Errorf("hash costs: %w", err)
	}
	cacheKey := r.Keyer.SolveKey(graphHash, opts.SolveKeyOpts(costHash))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			sol, err := unmarshalSolution(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "solve")
				return sol, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
	}

	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, opts.Variant, g.NodeCount())
	start := time.Now()
	sol, err := Solve(g, c, opts)
	accepted := 0
	if sol != nil {
		accepted = sol.Stats().Accepted
	}
	hooks.OnSolveComplete(ctx, opts.Variant, accepted, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := marshalSolution(sol); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLSolve) == nil {
			observability.Cache().OnCacheSet(ctx, "solve", len(data))
		}
	}
	return sol, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, g *digraph.Digraph, c stio.Costs, opts Options) (*Solution, error) {
	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	sol, _, err := r.SolveWithCacheInfo(ctx, g, graphHash, c, opts)
	return sol, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true when every cacheable format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *digraph.Digraph, graphHash string, sol *Solution, runID string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, hit, err := r.render(ctx, g, graphHash, sol, runID, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, g *digraph.Digraph, graphHash string, sol *Solution, runID string, opts Options) (map[string][]byte, bool, error) {
	solData, err := marshalSolution(sol)
	if err != nil {
		return nil, false, fmt.Errorf("serialize solution for cache key: %w", err)
	}
	resultHash := cache.Hash(append([]byte(graphHash), solData...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	cachedAll := true
	for _, format := range opts.Formats {
		if !cacheable(format) {
			missing = append(missing, format)
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		cachedAll = false
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, cachedAll, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, g, sol, runID, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if !cacheable(format) {
			continue
		}
		key := r.Keyer.ArtifactKey(resultHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, cachedAll, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *digraph.Digraph, sol *Solution, runID string, opts Options) (map[string][]byte, error) {
	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, graphHash, sol, runID, opts)
	return artifacts, err
}

// GraphHash returns the content hash of g's JSON encoding.
func GraphHash(g *digraph.Digraph) (string, error) {
	var buf bytes.Buffer
	if err := stio.WriteJSON(g, stio.Costs{}, &buf); err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
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
