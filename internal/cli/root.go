// Package cli implements the stoproute command-line interface.
//
// This package provides commands for solving stopping-route problems on
// weighted graphs, generating grid and road-network inputs, inspecting the
// path a traveller follows and managing the result cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - solve: Compute expected costs and routing decisions, write results
//   - grid: Generate an 8-connected grid graph
//   - roads: Convert a line-delimited road network to a graph file
//   - path: Follow the routing decisions from a start node
//   - serve: Expose the solver over HTTP
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/stoproute/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stoproute/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "stoproute computes optimal routes under random termination",
		Long:          `stoproute computes, for every node of a weighted graph, the expected terminal cost of a traveller who may be stopped at each step, and the move that minimizes it.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := LogInfo
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.roadsCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
