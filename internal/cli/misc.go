// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/terms"
)

func newTermsCmd(opts *rootOptions) *cobra.Command {
	var (
		lang string
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "terms",
		Short: "Show the terms of service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var l locale.Locale
			if lang != "" {
				parsed, err := locale.ParseLocale(lang)
				if err != nil {
					return &ValidationError{Field: "lang", Reason: err.Error()}
				}
				l = parsed
			} else {
				e, err := opts.open(cmd)
				if err != nil {
					return err
				}
				l = e.store.Locale()
				_ = e.Close()
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), terms.Markdown(l))
				return nil
			}
			out, err := terms.Render(l, GetTerminalWidth())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "language (en, ja); defaults to the stored preference")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.jsonOut {
				return NewJSONResponse("version", map[string]string{
					"version":    Version,
					"git_commit": GitCommit,
					"build_date": BuildDate,
					"go":         runtime.Version(),
				}).Print(cmd.OutOrStdout())
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "credexa version %s\n", Version)
			fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
			fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
			return nil
		},
	}
}
