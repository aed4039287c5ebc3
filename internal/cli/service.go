// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// service.go - read-only calls against the API: health, bank-config, user.

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/api"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "health", func() (interface{}, error) {
				status, err := e.client.Health(cmd.Context())
				if err != nil {
					return nil, NewCommandError("health", "", err)
				}
				data := map[string]string{"url": e.client.BaseURL(), "status": status}
				if !opts.jsonOut {
					printSuccess(cmd.OutOrStdout(), "%s: %s", e.client.BaseURL(), status)
				}
				return data, nil
			})
		},
	}
}

func newBankConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bank-config",
		Short: "Show the bank's branding and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "bank-config", func() (interface{}, error) {
				bank, err := e.client.BankConfig(cmd.Context())
				if err != nil {
					return nil, NewCommandError("bank-config", "", err)
				}
				if !opts.jsonOut {
					w := cmd.OutOrStdout()
					printTitle(w, bank.BankName)
					if bank.LogoURL != "" {
						printField(w, "Logo", bank.LogoURL)
					}
					printField(w, "Default language", orDash(bank.DefaultLanguage))
					printField(w, "Default currency", orDash(bank.DefaultCurrency))
					printField(w, "Decimal places", bank.CurrencyDecimalPlaces)
				}
				return bank, nil
			})
		},
	}
}

func newUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user <username>",
		Short: "Look up a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "user", func() (interface{}, error) {
				user, err := e.client.UserByUsername(cmd.Context(), args[0])
				if err != nil {
					return nil, NewCommandError("user", args[0], err)
				}
				if !opts.jsonOut {
					printUser(cmd, user)
				}
				return user, nil
			})
		},
	}
}

func printUser(cmd *cobra.Command, u *api.User) {
	w := cmd.OutOrStdout()
	printTitle(w, u.Username)
	printField(w, "ID", u.ID)
	printField(w, "Email", orDash(u.Email))
	printField(w, "Mobile", orDash(u.MobileNumber))
	printField(w, "Language", orDash(u.PreferredLanguage))
	printField(w, "Currency", orDash(u.PreferredCurrency))
	if len(u.Roles) > 0 {
		names := make([]string, len(u.Roles))
		for i, r := range u.Roles {
			names[i] = r.Name
		}
		printField(w, "Roles", strings.Join(names, ", "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
