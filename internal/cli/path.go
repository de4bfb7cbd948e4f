package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stoproute/pkg/costs"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	"github.com/matzehuels/stoproute/pkg/pipeline"
	"github.com/matzehuels/stoproute/pkg/policy"
	"github.com/matzehuels/stoproute/pkg/termination"
)

// pathCommand creates the path command, which follows the routing decisions
// from one start node.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		config  string
		noCache bool
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "path [graph.json]",
		Short: "Follow the routing decisions from a start node",
		Long: `Follow the routing decisions from a start node.

The graph, costs and solver settings are given as for solve. Without --start,
an interactive picker lists the nodes by expected cost.

With --caller and the constant variant, the distribution of the distance
between the stopping point and the caller is printed as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			final, err := resolveOptions(cmd, config, opts, args)
			if err != nil {
				return err
			}
			return c.runPath(cmd.Context(), final, noCache)
		},
	}

	cmd.Flags().StringVar(&config, "config", "", "TOML run file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().StringVar(&opts.Start, "start", "", "node to start from (default: pick interactively)")

	addSourceFlags(cmd, &opts)
	addCostFlags(cmd, &opts)
	addSolveFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPath(ctx context.Context, opts pipeline.Options, noCache bool) error {
	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, stored, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	g, derived, err := runner.Costs(ctx, g, stored, opts)
	if err != nil {
		return err
	}
	sol, err := runner.Solve(ctx, g, derived, opts)
	if err != nil {
		return err
	}

	start := opts.Start
	if start == "" {
		if start, err = pickStart(sol); err != nil {
			return err
		}
		if start == "" {
			return nil
		}
	}
	if !g.HasNode(start) {
		return errs.New(errs.ErrCodeNodeNotFound, "start node %q not in graph", start)
	}

	path, err := policy.Path(sol.Routes(), start)
	if err != nil {
		return err
	}
	printSuccess("Route from %s (%d moves)", start, len(path)-1)
	printDetail("%s", strings.Join(path, " "+iconArrow+" "))
	printKeyValue("expected", formatFloat(sol.Values()[start]))

	if len(opts.Callers) == 0 || opts.Variant != termination.VariantConstant {
		return nil
	}
	dists, err := costs.Distances(g, opts.Callers)
	if err != nil {
		return err
	}
	probs := opts.CallerWeights
	if len(probs) == 0 {
		probs = costs.Uniform(len(opts.Callers))
	}
	pdf, err := policy.SummedPDF(dists, path, probs, opts.Probability)
	if err != nil {
		return err
	}
	printKeyValue("mean dist", formatFloat(policy.Mean(pdf)))
	printNewline()
	printCDFTable(policy.CDF(pdf))
	return nil
}

// nodeEntries lists the accepted nodes by expected cost, ties by ID.
func nodeEntries(sol *pipeline.Solution) []NodeEntry {
	values := sol.Values()
	stationary := make(map[string]bool)
	for _, id := range sol.Stationary() {
		stationary[id] = true
	}
	out := make([]NodeEntry, 0, len(values))
	for id, v := range values {
		out = append(out, NodeEntry{ID: id, Cost: v, Stationary: stationary[id]})
	}
	slices.SortFunc(out, func(a, b NodeEntry) int {
		if a.Cost != b.Cost {
			if a.Cost < b.Cost {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// pickStart runs the interactive picker. An empty result means the user quit.
func pickStart(sol *pipeline.Solution) (string, error) {
	final, err := tea.NewProgram(NewNodeListModel(nodeEntries(sol))).Run()
	if err != nil {
		return "", fmt.Errorf("node picker: %w", err)
	}
	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.ID, nil
}
