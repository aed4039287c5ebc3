// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/logging"
	"github.com/credexa/credexa-tui/internal/server"
)

func newDevServerCmd(opts *rootOptions) *cobra.Command {
	var (
		addr     string
		bankName string
		tokenTTL time.Duration
		users    []string
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory Credexa API for local development",
		Long: `Run an in-memory implementation of the Credexa API. Accounts and
sessions are lost when the server stops.

Seed accounts with --user name:password (repeatable), then point the client
at it with --api-url http://127.0.0.1:8080.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			closeLog, err := logging.Setup(logging.Options{
				Level:   cfg.Log.Level,
				Path:    cfg.Log.Path,
				Console: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer closeLog()

			bank := server.DefaultBank
			if bankName != "" {
				bank.BankName = bankName
			}
			srv, err := server.New(server.Options{Addr: addr, Bank: bank, TokenTTL: tokenTTL})
			if err != nil {
				return err
			}
			if err := seedUsers(srv.Users(), users); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving the Credexa API on http://%s (Ctrl+C to stop)\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&bankName, "bank-name", "", "bank name served by /bank-config")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", server.DefaultTokenTTL, "lifetime of issued tokens")
	cmd.Flags().StringArrayVar(&users, "user", nil, "seed account as name:password")
	return cmd
}

// seedUsers registers each name:password pair.
func seedUsers(dir *server.Directory, entries []string) error {
	for _, entry := range entries {
		name, password, ok := strings.Cut(entry, ":")
		if !ok || name == "" || password == "" {
			return &ValidationError{Field: "user", Reason: fmt.Sprintf("%q is not name:password", entry)}
		}
		_, err := dir.Register(api.RegisterRequest{
			Username:          name,
			Email:             name + "@example.com",
			Password:          password,
			PreferredLanguage: string(locale.DefaultLocale),
			PreferredCurrency: string(locale.DefaultCurrency),
		})
		if err != nil && !errors.Is(err, server.ErrUsernameTaken) {
			return fmt.Errorf("seeding %s: %w", name, err)
		}
		log.Info().Str("username", name).Msg("seeded account")
	}
	return nil
}
