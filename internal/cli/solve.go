package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/stoproute/pkg/errors"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

// solveCommand creates the solve command, which runs the full pipeline.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		config     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "solve [graph.json]",
		Short: "Compute expected costs and routing decisions",
		Long: `Compute expected costs and routing decisions.

The graph comes from a graph file argument, --roads, or --cols/--rows for a
generated grid. Terminal costs are read from the graph file, or derived from
--caller locations as the expected shortest-path distance to the caller.

Settings can be kept in a TOML run file passed with --config; flags that are
set explicitly override the file.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			final, err := resolveOptions(cmd, config, opts, args)
			if err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), final, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVar(&config, "config", "", "TOML run file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output base path (default: <input> or grid-<cols>x<rows>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")

	addSourceFlags(cmd, &opts)
	addCostFlags(cmd, &opts)
	addSolveFlags(cmd, &opts)

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "label nodes with their IDs")
	cmd.Flags().StringVar(&opts.Start, "start", "", "highlight the path from this node")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Roads, "roads", "", "line-delimited road network file")
	cmd.Flags().IntVar(&opts.Cols, "cols", 0, "grid columns")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "grid rows")
	cmd.MarkFlagsMutuallyExclusive("roads", "cols")
	cmd.MarkFlagsMutuallyExclusive("roads", "rows")
}

func addCostFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringSliceVar(&opts.Callers, "caller", nil, "caller node ID (repeatable); derives costs from distances")
	cmd.Flags().Float64SliceVar(&opts.CallerWeights, "caller-weight", nil, "relative caller probability, one per --caller (default: uniform)")
	cmd.Flags().StringVar(&opts.CostFunc, "cost", opts.CostFunc, "caller cost function: expected, exceeding")
	cmd.Flags().Float64Var(&opts.Allowed, "allowed", 0, "distance bound for the exceeding cost")
}

func addSolveFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Variant, "variant", opts.Variant, "termination model: constant, continuous, lexicographic, per-component")
	cmd.Flags().Float64VarP(&opts.Probability, "probability", "p", opts.Probability, "termination probability per step")
	cmd.Flags().Float64Var(&opts.Rate, "rate", 0, "termination probability per unit of edge weight (continuous)")
	cmd.Flags().StringVar(&opts.SinkPolicy, "sinks", opts.SinkPolicy, "nodes without successors: seed, skip, error")
	cmd.Flags().IntVar(&opts.MaxRelaxations, "max-relaxations", 0, "abort after this many relaxations (0: unbounded)")
}

// resolveOptions merges the run file, explicitly set flags and the graph
// argument, in increasing order of precedence.
func resolveOptions(cmd *cobra.Command, config string, flags pipeline.Options, args []string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if config != "" {
		if err := pipeline.LoadOptionsFile(config, &opts); err != nil {
			return opts, err
		}
	}

	overrides := map[string]func(){
		"output":          func() { opts.Output = flags.Output },
		"refresh":         func() { opts.Refresh = flags.Refresh },
		"caller":          func() { opts.Callers = flags.Callers },
		"caller-weight":   func() { opts.CallerWeights = flags.CallerWeights },
		"cost":            func() { opts.CostFunc = flags.CostFunc },
		"allowed":         func() { opts.Allowed = flags.Allowed },
		"variant":         func() { opts.Variant = flags.Variant },
		"probability":     func() { opts.Probability = flags.Probability },
		"rate":            func() { opts.Rate = flags.Rate },
		"sinks":           func() { opts.SinkPolicy = flags.SinkPolicy },
		"max-relaxations": func() { opts.MaxRelaxations = flags.MaxRelaxations },
		"format":          func() { opts.Formats = flags.Formats },
		"labels":          func() { opts.Labels = flags.Labels },
		"start":           func() { opts.Start = flags.Start },
	}
	for name, apply := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply()
		}
	}

	// A source given on the command line replaces the file's source.
	grid := cmd.Flags().Changed("cols") || cmd.Flags().Changed("rows")
	roads := cmd.Flags().Changed("roads")
	switch {
	case len(args) > 0 && (grid || roads):
		return opts, errs.New(errs.ErrCodeInvalidInput, "a graph argument cannot be combined with --roads, --cols or --rows")
	case len(args) > 0:
		opts.Graph, opts.Roads, opts.Cols, opts.Rows = args[0], "", 0, 0
	case roads:
		opts.Graph, opts.Roads, opts.Cols, opts.Rows = "", flags.Roads, 0, 0
	case grid:
		opts.Graph, opts.Roads = "", ""
		if cmd.Flags().Changed("cols") {
			opts.Cols = flags.Cols
		}
		if cmd.Flags().Changed("rows") {
			opts.Rows = flags.Rows
		}
	}
	return opts, nil
}

// runSolve executes the pipeline and writes the requested artifacts.
func (c *CLI) runSolve(ctx context.Context, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newStageSpinner(ctx, "Solving "+opts.Source())
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if spin.Interrupted() {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Solved %s", opts.Source()))

	paths, err := writeArtifacts(outputBase(opts), result.Artifacts, opts.Formats)
	if err != nil {
		return err
	}

	printSuccess("Solved with the %s variant", result.Solution.Variant)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.SolveHit)
	printNewline()
	printSolveSummary(result)

	if unreached := result.Solution.Unreached(); len(unreached) > 0 {
		printWarning("%d nodes never reached a stopping node", len(unreached))
	}
	if opts.Start == "" {
		printNewline()
		printNextStep("Follow a route", appName+" path <same source and cost flags> --start <node>")
	}
	return nil
}
