// Package pipeline provides the load → cost → solve → render pipeline for
// stoproute.
//
// This package implements the complete pipeline used by the CLI. By
// centralizing this logic, every command loads graphs, derives costs and
// caches results the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read a graph file, a road network or generate a grid
//  2. Costs: Take terminal costs from the graph file or derive them from
//     caller locations and shortest-path distances
//  3. Solve: Run one of the termination variants over the graph
//  4. Render: Generate output in various formats (JSON, DOT, SVG, PDF, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Cols, opts.Rows = 20, 20
//	opts.Callers = []string{"0,0", "19,19"}
//	opts.Formats = []string{"svg"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stoproute/pkg/cache"
	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/termination"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and config files
// =============================================================================

const (
	// DefaultVariant is the default termination model.
	DefaultVariant = termination.VariantConstant

	// DefaultProbability is the default per-step termination probability.
	DefaultProbability = 0.5

	// DefaultCostFunc is the default caller-based cost function.
	DefaultCostFunc = CostExpected

	// MaxGridNodes caps cols×rows for generated grids.
	MaxGridNodes = 1 << 20
)

// Cost function names.
const (
	// CostExpected is the probability-weighted mean distance to the callers.
	CostExpected = "expected"
	// CostExceeding is the probability that the distance exceeds Allowed.
	CostExceeding = "exceeding"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// ValidCostFuncs is the set of supported cost functions.
var ValidCostFuncs = map[string]bool{
	CostExpected:  true,
	CostExceeding: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// It can be decoded from a TOML run file with [LoadOptionsFile].
type Options struct {
	// Source options. Exactly one of Graph, Roads or Cols×Rows is set.
	Graph   string `toml:"graph" json:"graph,omitempty"`     // graph JSON file
	Roads   string `toml:"roads" json:"roads,omitempty"`     // line-delimited road network
	Cols    int    `toml:"cols" json:"cols,omitempty"`       // grid columns
	Rows    int    `toml:"rows" json:"rows,omitempty"`       // grid rows
	Refresh bool   `toml:"refresh" json:"refresh,omitempty"` // bypass the cache

	// Cost options. Without callers, costs come from the graph file.
	Callers       []string  `toml:"callers" json:"callers,omitempty"`
	CallerWeights []float64 `toml:"caller_weights" json:"caller_weights,omitempty"` // defaults to uniform
	CostFunc      string    `toml:"cost_func" json:"cost_func,omitempty"`
	Allowed       float64   `toml:"allowed" json:"allowed,omitempty"` // distance bound for CostExceeding

	// Solve options
	Variant        string  `toml:"variant" json:"variant"`
	Probability    float64 `toml:"probability" json:"probability"`
	Rate           float64 `toml:"rate" json:"rate,omitempty"`
	SinkPolicy     string  `toml:"sink_policy" json:"sink_policy,omitempty"`
	MaxRelaxations int     `toml:"max_relaxations" json:"max_relaxations,omitempty"`

	// Render options
	Formats []string `toml:"formats" json:"formats,omitempty"`
	Labels  bool     `toml:"labels" json:"labels,omitempty"`
	Start   string   `toml:"start" json:"start,omitempty"` // highlight the path from this node
	Output  string   `toml:"output" json:"output,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-" json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every default applied and no source.
func DefaultOptions() Options {
	return Options{
		Variant:     DefaultVariant,
		Probability: DefaultProbability,
		CostFunc:    DefaultCostFunc,
		SinkPolicy:  termination.SinkSeed.String(),
		Formats:     []string{FormatJSON},
	}
}

// LoadOptionsFile decodes a TOML run file into opts. Keys missing from the
// file leave the corresponding fields of opts unchanged.
func LoadOptionsFile(path string, opts *Options) error {
	md, err := toml.DecodeFile(path, opts)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "unknown key %q in %s", undecoded[0].String(), path)
	}
	opts.validated = false
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and the result file.
	RunID string

	// Graph is the graph the solver ran on. Nodes no caller reaches are
	// removed when costs are derived from callers.
	Graph *digraph.Digraph

	// GraphHash is the content hash of Graph.
	GraphHash string

	// Costs are the terminal costs the solver used.
	Costs stio.Costs

	// Solution is the solver output.
	Solution *Solution

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	CostTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the loaded graph came from cache
	SolveHit  bool // Whether the solver result came from cache
	RenderHit bool // Whether all cacheable artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, pdf, png)", format)
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

// ValidateVariant checks that a variant name is known.
func ValidateVariant(variant string) error {
	if !slices.Contains(termination.Variants, variant) {
		return errs.New(errs.ErrCodeInvalidVariant,
			"invalid variant: %q (must be one of: %v)", variant, termination.Variants)
	}
	return nil
}

// ValidateCostFunc checks that a cost function name is known.
func ValidateCostFunc(name string) error {
	if !ValidCostFuncs[name] {
		return errs.New(errs.ErrCodeInvalidInput,
			"invalid cost function: %q (must be one of: expected, exceeding)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCosts(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that exactly one graph source is set.
func (o *Options) ValidateForLoad() error {
	sources := 0
	if o.Graph != "" {
		sources++
	}
	if o.Roads != "" {
		sources++
	}
	if o.Cols != 0 || o.Rows != 0 {
		if o.Cols <= 0 || o.Rows <= 0 {
			return errs.New(errs.ErrCodeInvalidInput, "grid size must be positive, got %dx%d", o.Cols, o.Rows)
		}
		if o.Cols > MaxGridNodes/o.Rows {
			return errs.New(errs.ErrCodeLimitExceeded, "grid %dx%d exceeds %d nodes", o.Cols, o.Rows, MaxGridNodes)
		}
		sources++
	}
	switch sources {
	case 0:
		return errs.New(errs.ErrCodeInvalidInput, "a graph file, road network or grid size is required")
	case 1:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "only one of graph, roads and grid size may be set")
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForCosts validates and sets defaults for cost derivation.
func (o *Options) ValidateForCosts() error {
	if o.CostFunc == "" {
		o.CostFunc = DefaultCostFunc
	}
	if err := ValidateCostFunc(o.CostFunc); err != nil {
		return err
	}
	if len(o.CallerWeights) > 0 && len(o.CallerWeights) != len(o.Callers) {
		return errs.New(errs.ErrCodeInvalidInput,
			"%d caller weights for %d callers", len(o.CallerWeights), len(o.Callers))
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForSolve validates and sets defaults for the solver.
func (o *Options) ValidateForSolve() error {
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if err := ValidateVariant(o.Variant); err != nil {
		return err
	}
	if o.Variant == termination.VariantContinuous {
		if err := errs.ValidateRate(o.Rate); err != nil {
			return err
		}
	} else if err := errs.ValidateProbability(o.Probability); err != nil {
		return err
	}
	policy, err := termination.ParseSinkPolicy(o.SinkPolicy)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "sink policy")
	}
	o.SinkPolicy = policy.String()
	if o.MaxRelaxations < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max relaxations must not be negative: %d", o.MaxRelaxations)
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLoggerDefault()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsLexicographic returns true if the variant solves over cost pairs.
func (o *Options) IsLexicographic() bool {
	return o.Variant == termination.VariantLexicographic || o.Variant == termination.VariantPerComponent
}

// Source describes the graph source for logs and hooks.
func (o *Options) Source() string {
	switch {
	case o.Graph != "":
		return o.Graph
	case o.Roads != "":
		return o.Roads
	default:
		return fmt.Sprintf("grid:%dx%d", o.Cols, o.Rows)
	}
}

// SolveKeyOpts returns cache key options for the solver stage.
func (o *Options) SolveKeyOpts(costHash string) cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		CostHash:       costHash,
		Variant:        o.Variant,
		Probability:    o.Probability,
		Rate:           o.Rate,
		SinkPolicy:     o.SinkPolicy,
		MaxRelaxations: o.MaxRelaxations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Labels: o.Labels,
		Path:   o.Start,
	}
}

// RunInfo returns the run parameters recorded in the result file.
func (o *Options) RunInfo(runID string) stio.RunInfo {
	info := stio.RunInfo{
		RunID:      runID,
		Variant:    o.Variant,
		SinkPolicy: o.SinkPolicy,
	}
	if o.Variant == termination.VariantContinuous {
		info.Rate = o.Rate
	} else {
		info.Probability = o.Probability
	}
	return info
}
