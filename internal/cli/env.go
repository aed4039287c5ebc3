// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/config"
	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/logging"
	"github.com/credexa/credexa-tui/internal/session"
)

// env is everything a command needs, built once per invocation.
type env struct {
	cfg    *config.Config
	store  *credstore.Store
	client *api.Client

	closeLog func() error
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.storeKind != "" {
		cfg.Store.Backend = o.storeKind
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// open sets up logging, the credential store and the API client.
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path}
	if o.verbose {
		logOpts.Console = cmd.ErrOrStderr()
	}
	closeLog, err := logging.Setup(logOpts)
	if err != nil {
		return nil, err
	}

	backend, err := credstore.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	var storeOpts []credstore.Option
	if cfg.Store.Seal {
		sealer, err := credstore.LoadSealer(cfg.Store.SecretPath)
		if err != nil {
			_ = backend.Close()
			_ = closeLog()
			return nil, err
		}
		storeOpts = append(storeOpts, credstore.WithSealer(sealer))
	}
	store := credstore.New(backend, storeOpts...)

	log.Debug().
		Str("command", cmd.CommandPath()).
		Str("store", cfg.Store.Backend).
		Str("api", cfg.API.BaseURL).
		Msg("environment ready")

	return &env{
		cfg:      cfg,
		store:    store,
		client:   api.NewClient(cfg.API.BaseURL, store).WithTimeout(cfg.APITimeout()),
		closeLog: closeLog,
	}, nil
}

// sessionConfig is the idle logout policy from the config file.
func (e *env) sessionConfig() session.Config {
	return session.Config{
		QuietDuration: e.cfg.IdleTimeout(),
		WarningLead:   e.cfg.WarningLead(),
		Debounce:      e.cfg.Debounce(),
	}
}

// Close releases the store and the log file.
func (e *env) Close() error {
	return errors.Join(e.store.Close(), e.closeLog())
}
