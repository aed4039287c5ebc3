// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	configPath string
	apiURL     string
	storeKind  string
	verbose    bool
	jsonOut    bool
}

// NewRootCmd builds the credexa command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "credexa",
		Short: "Credexa banking client",
		Long: `Credexa is a terminal client for the Credexa banking service.

Run without a subcommand to open the interactive client. Signed-in sessions
are logged out after a period of inactivity.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.credexa/config.toml)")
	flags.StringVar(&opts.apiURL, "api-url", "", "API base URL (overrides api.base_url)")
	flags.StringVar(&opts.storeKind, "store", "", "credential store backend: sqlite, bolt or memory")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr as well as the log file")
	flags.BoolVar(&opts.jsonOut, "json", false, "print machine-readable JSON where supported")

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newHealthCmd(opts),
		newBankConfigCmd(opts),
		newUserCmd(opts),
		newPrefsCmd(opts),
		newConfigCmd(opts),
		newTermsCmd(opts),
		newVersionCmd(opts),
		newDevServerCmd(opts),
	)
	return cmd
}

// Execute runs the command tree against os.Args and exits on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		os.Exit(GetExitCode(err))
	}
}
