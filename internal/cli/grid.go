package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stoproute/pkg/digraph"
	errs "github.com/matzehuels/stoproute/pkg/errors"
	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

// gridCommand creates the grid command, which writes a generated grid graph.
func (c *CLI) gridCommand() *cobra.Command {
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Generate an 8-connected grid graph",
		Long: `Generate a cols x rows grid graph with 8-connected moves.

Orthogonal moves weigh 1 and diagonal moves weigh √2. With --caller, terminal
costs are derived from distances to the callers and stored in the file, so
later solves need no caller flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.Cols, "cols", 10, "grid columns")
	cmd.Flags().IntVar(&opts.Rows, "rows", 10, "grid rows")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: grid-<cols>x<rows>.json)")
	addCostFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Variant, "variant", opts.Variant, "store the cost pair when set to lexicographic or per-component")

	return cmd
}

func (c *CLI) runGrid(ctx context.Context, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	g, err := digraph.Grid(opts.Cols, opts.Rows)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "grid")
	}

	var stored stio.Costs
	if len(opts.Callers) > 0 {
		if err := pipeline.ValidateVariant(opts.Variant); err != nil {
			return err
		}
		if err := opts.ValidateForCosts(); err != nil {
			return err
		}
		if g, stored, err = pipeline.DeriveCosts(g, stored, opts); err != nil {
			return err
		}
		logger.Debug("derived costs", "callers", len(opts.Callers), "nodes", g.NodeCount())
	}

	out := opts.Output
	if out == "" {
		out = fmt.Sprintf("grid-%dx%d.json", opts.Cols, opts.Rows)
	}
	if err := stio.ExportJSON(g, stored, out); err != nil {
		return err
	}

	printSuccess("Generated %dx%d grid", opts.Cols, opts.Rows)
	printFile(out)
	printStats(g.NodeCount(), g.EdgeCount(), false)
	printNewline()
	printNextStep("Solve it", appName+" solve "+out)
	return nil
}
