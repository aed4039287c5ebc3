// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/credstore"
)

func newPrefsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Long: `Show or change the stored display language (en, ja) and currency
(INR, KWD, JPY). A running client picks up changes immediately.`,
	}
	cmd.AddCommand(newPrefsGetCmd(opts), newPrefsSetCmd(opts))
	return cmd
}

func newPrefsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get [lang|currency]",
		Short: "Print preferences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []credstore.PreferenceKind{credstore.PrefLocale, credstore.PrefCurrency}
			if len(args) == 1 {
				kind, err := credstore.ParsePreferenceKind(args[0])
				if err != nil {
					return err
				}
				kinds = []credstore.PreferenceKind{kind}
			}

			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "prefs get", func() (interface{}, error) {
				data := make(map[string]string, len(kinds))
				for _, kind := range kinds {
					data[string(kind)] = e.store.Preference(kind)
				}
				if opts.jsonOut {
					return data, nil
				}
				w := cmd.OutOrStdout()
				if len(kinds) == 1 {
					fmt.Fprintln(w, data[string(kinds[0])])
					return data, nil
				}
				for _, kind := range kinds {
					value := data[string(kind)]
					if !e.store.HasPreference(kind) {
						value += DimStyle.Render(" (default)")
					}
					printField(w, string(kind), value)
				}
				return data, nil
			})
		},
	}
}

func newPrefsSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <lang|currency> <value>",
		Short: "Change a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := credstore.ParsePreferenceKind(args[0])
			if err != nil {
				return err
			}

			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "prefs set", func() (interface{}, error) {
				if err := e.store.SetPreference(kind, args[1]); err != nil {
					return nil, NewCommandError("prefs", "set", err)
				}
				value := e.store.Preference(kind)
				if !opts.jsonOut {
					printSuccess(cmd.OutOrStdout(), "%s set to %s", kind, value)
				}
				return map[string]string{string(kind): value}, nil
			})
		},
	}
}
