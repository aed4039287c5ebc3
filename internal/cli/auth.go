// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - login, logout and whoami.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/credexa/credexa-tui/internal/api"
	"github.com/credexa/credexa-tui/internal/credstore"
	"github.com/credexa/credexa-tui/internal/locale"
	"github.com/credexa/credexa-tui/internal/token"
	"github.com/credexa/credexa-tui/internal/ui/app"
)

// errAborted is returned when the user cancels a prompt.
var errAborted = errors.New("aborted")

// =============================================================================
// LOGIN
// =============================================================================

type loginData struct {
	Username string   `json:"username"`
	UserID   int64    `json:"user_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Language string   `json:"language"`
	Currency string   `json:"currency"`
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with a username, email address or mobile number.

The password is read without echo from the terminal, or as a single line from
stdin when --password-stdin is given or stdin is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			stdin := cmd.InOrStdin()
			interactive := isTerminalReader(stdin)
			lines := bufio.NewReader(stdin)

			if username == "" {
				if interactive {
					username, err = promptLine("Username, email or mobile: ")
				} else {
					username, err = readLine(lines)
				}
				if err != nil {
					return err
				}
			}

			var password string
			if interactive && !passwordStdin {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				password, err = readPassword(cmd.ErrOrStderr())
			} else {
				password, err = readLine(lines)
			}
			if err != nil {
				return err
			}

			if err := validateCredentials(username, password); err != nil {
				return err
			}

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "login", func() (interface{}, error) {
				resp, err := e.client.Login(cmd.Context(), api.LoginRequest{
					UsernameOrEmailOrMobile: strings.TrimSpace(username),
					Password:                password,
				})
				if err != nil {
					return nil, NewCommandError("login", "", err)
				}
				adoptPreferences(e.store, resp.PreferredLanguage, resp.PreferredCurrency)

				data := loginData{
					Username: resp.Username,
					UserID:   resp.UserID,
					Roles:    resp.Roles,
					Language: string(e.store.Locale()),
					Currency: string(e.store.Currency()),
				}
				if data.Username == "" {
					data.Username = strings.TrimSpace(username)
				}
				if !opts.jsonOut {
					printSuccess(cmd.OutOrStdout(), "Signed in as %s", data.Username)
				}
				return data, nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username, email or mobile number")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// validateCredentials applies the same checks as the login screen.
func validateCredentials(identifier, password string) error {
	switch {
	case strings.TrimSpace(identifier) == "":
		return &ValidationError{Field: "username", Reason: "required"}
	case password == "":
		return &ValidationError{Field: "password", Reason: "required"}
	case !app.ValidPassword(password):
		return &ValidationError{Field: "password", Reason: "must be at least 8 characters and include a special character"}
	}
	return nil
}

// adoptPreferences stores the server's language and currency for any
// preference the user has not set locally.
func adoptPreferences(store *credstore.Store, lang, currency string) {
	if lang != "" && !store.HasPreference(credstore.PrefLocale) {
		if l, err := locale.ParseLocale(lang); err == nil {
			if err := store.SetLocale(l); err != nil {
				log.Warn().Err(err).Msg("saving server language")
			}
		}
	}
	if currency != "" && !store.HasPreference(credstore.PrefCurrency) {
		if c, err := locale.ParseCurrency(currency); err == nil {
			if err := store.SetCurrency(c); err != nil {
				log.Warn().Err(err).Msg("saving server currency")
			}
		}
	}
}

// promptLine reads one line with editing support from the terminal.
func promptLine(prompt string) (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	s, err := line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errAborted
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

// readPassword reads a password from the terminal without echo.
func readPassword(w io.Writer) (string, error) {
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(string(passBytes), "\r\n"), nil
}

// readLine reads one line, accepting a final line without a newline.
func readLine(r *bufio.Reader) (string, error) {
	s, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", &ValidationError{Field: "input", Reason: "unexpected end of input"}
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// =============================================================================
// LOGOUT
// =============================================================================

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "logout", func() (interface{}, error) {
				out := cmd.OutOrStdout()
				if !e.store.HasSession() {
					if !opts.jsonOut {
						printWarning(out, "Not signed in")
					}
					return map[string]bool{"signed_out": false}, nil
				}

				// The local session is gone even when the server call fails.
				reqErr := e.client.Logout(cmd.Context())
				if reqErr != nil {
					log.Warn().Err(reqErr).Msg("server logout failed")
				}
				if !opts.jsonOut {
					if reqErr != nil {
						printWarning(cmd.ErrOrStderr(), "Server did not confirm sign-out: %v", reqErr)
					}
					printSuccess(out, "Signed out")
				}
				return map[string]bool{"signed_out": true, "server_confirmed": reqErr == nil}, nil
			})
		},
	}
}

// =============================================================================
// WHOAMI
// =============================================================================

type whoamiData struct {
	Username  string     `json:"username,omitempty"`
	UserID    int64      `json:"user_id,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Valid     *bool      `json:"valid,omitempty"`
	Message   string     `json:"message,omitempty"`
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the signed-in user from the stored token. Unless --offline is given
the token is also checked with the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			return OutputJSON(cmd.OutOrStdout(), opts.jsonOut, "whoami", func() (interface{}, error) {
				raw, ok := e.store.Session()
				if !ok {
					return nil, ErrNotSignedIn
				}

				var data whoamiData
				if info, err := token.Inspect(raw); err == nil {
					data.Username = info.Username
					data.UserID = info.UserID
					data.Roles = info.Roles
					if info.HasExpiry() {
						exp := info.ExpiresAt
						data.ExpiresAt = &exp
					}
				} else {
					log.Debug().Err(err).Msg("stored token is opaque")
				}

				if !offline {
					v, err := e.client.ValidateToken(cmd.Context(), raw)
					if err != nil {
						return nil, NewCommandError("whoami", "validate", err)
					}
					valid := v.IsValid()
					data.Valid = &valid
					data.Message = v.Message
					if v.Username != "" {
						data.Username = v.Username
					}
					if v.UserID != 0 {
						data.UserID = v.UserID
					}
					if len(v.Roles) > 0 {
						data.Roles = v.Roles
					}
				}

				if !opts.jsonOut {
					printWhoami(cmd.OutOrStdout(), data)
				}
				if data.Valid != nil && !*data.Valid {
					return data, fmt.Errorf("%w: session rejected by server", ErrNotSignedIn)
				}
				return data, nil
			})
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "only decode the stored token")
	return cmd
}

func printWhoami(w io.Writer, d whoamiData) {
	printTitle(w, "Signed-in user")
	if d.Username != "" {
		printField(w, "Username", d.Username)
	} else {
		printField(w, "Username", DimStyle.Render("(opaque token)"))
	}
	if d.UserID != 0 {
		printField(w, "User ID", d.UserID)
	}
	if len(d.Roles) > 0 {
		printField(w, "Roles", strings.Join(d.Roles, ", "))
	}
	if d.ExpiresAt != nil {
		printField(w, "Expires", d.ExpiresAt.Local().Format(time.RFC1123))
	}
	if d.Valid != nil {
		if *d.Valid {
			printField(w, "Server", SuccessStyle.Render("valid"))
		} else {
			verdict := "rejected"
			if d.Message != "" {
				verdict += ": " + d.Message
			}
			printField(w, "Server", ErrorStyle.Render(verdict))
		}
	}
}
