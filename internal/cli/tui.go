// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/clock"
	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/ui/app"
	"github.com/credexa/credexa-tui/internal/ui/styles"
)

// runTUI opens the interactive client.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if !isTerminalReader(cmd.InOrStdin()) {
		return &TTYRequiredError{Operation: "start the interactive client"}
	}

	e, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	var watcher *credstore.Watcher
	if e.store.Path() != "" {
		if watcher, err = e.store.Watch(); err != nil {
			log.Warn().Err(err).Msg("store changes from other processes will not be picked up")
		} else {
			defer watcher.Close()
		}
	}

	log.Info().Str("version", Version).Msg("starting TUI")
	return app.Run(app.Deps{
		Store:   e.store,
		Client:  e.client,
		Clock:   clock.Real(),
		Session: e.sessionConfig(),
		Theme:   styles.NewTheme(e.cfg.UI.Theme),
		Watcher: watcher,
	})
}
