// Package cli wires the teapot command line: configuration, logging and
// the HTTP server lifecycle.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teapot/internal/handlers"
)

// Version is injected during build with -ldflags "-X teapot/internal/cli.Version=...".
var Version = handlers.DefaultVersion

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teapot",
		Short: "Teapot is a REST API for teapots, teas and brewing sessions",
		Long: `Teapot serves a JSON REST API for cataloguing teapots and teas and
recording brewing sessions and their individual steeps. All data lives in
memory and is lost when the process exits.

Configuration can be provided via flags, TEAPOT_* environment variables,
or a YAML configuration file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "teapot %s\n", Version)
		},
	}
}
