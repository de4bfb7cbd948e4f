package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	stio "github.com/matzehuels/stoproute/pkg/io"
	"github.com/matzehuels/stoproute/pkg/pipeline"
)

// roadsCommand creates the roads command, which converts a line-delimited
// road network into a graph file.
func (c *CLI) roadsCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "roads <network.jsonl>",
		Short: "Convert a road network to a graph file",
		Long: `Convert a line-delimited road network to a graph file.

Each input line holds one JSON record: a node with an ID and a location, or a
way with an ordered list of node refs. Consecutive refs of a way become
edges in both directions, weighted by the distance between their locations.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".json"
			}
			return c.runRoads(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRoads(ctx context.Context, input, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.DefaultOptions()
	opts.Roads = input
	opts.Logger = loggerFromContext(ctx)

	spin := newStageSpinner(ctx, "Reading "+opts.Source())
	spin.Start()
	g, _, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	spin.Stop()
	if spin.Interrupted() {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	if err := stio.ExportJSON(g, stio.Costs{}, output); err != nil {
		return err
	}

	printSuccess("Converted %s", input)
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), hit)
	return nil
}
