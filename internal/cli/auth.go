package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/session"
	"github.com/idilsaglam/notes/internal/ui"
)

func (a *App) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register and inspect the stored credential",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError("usage: notes auth <login|register|logout|status|whoami>")
		},
	}
	cmd.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.statusCmd(),
		a.whoamiCmd(),
	)
	return cmd
}

func credentialFlags(cmd *cobra.Command, c *credentials) {
	cmd.Flags().StringVarP(&c.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&c.Password, "password", "p", "", "account password (prompted when omitted)")
}

func (a *App) loginCmd() *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange email and password for a session",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.askCredentials(&c, "Log in"); err != nil {
				return err
			}
			return a.login(cmd, c)
		},
	}
	credentialFlags(cmd, &c)
	return cmd
}

func (a *App) login(cmd *cobra.Command, c credentials) error {
	toks, err := a.client.Login(cmd.Context(), c.Email, c.Password)
	if err != nil {
		return failure(err.Error(), "")
	}
	if err := a.session.Login(toks.Access, toks.Refresh); err != nil {
		return err
	}
	ui.OK(a.out, "logged in as "+strings.TrimSpace(c.Email))
	if cmd.Flags().Changed("api-url") {
		if err := config.RememberAPIURL(a.cfg.Home, a.cfg.APIURL); err != nil {
			log.Warn().Err(err).Msg("remember api url")
		} else {
			ui.Hint(a.out, "using "+a.cfg.APIURL+" from now on")
		}
	}
	if a.session.Source() == session.SourceEnv {
		ui.Hint(a.out, "note: NOTES_TOKEN is set and takes precedence over the stored credential")
	}
	return nil
}

func (a *App) registerCmd() *cobra.Command {
	var c credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.askCredentials(&c, "Create account"); err != nil {
				return err
			}
			if err := a.client.Register(cmd.Context(), c.Email, c.Password); err != nil {
				return failure(err.Error(), "")
			}
			ui.OK(a.out, "registered")
			return a.login(cmd, c)
		},
	}
	credentialFlags(cmd, &c)
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.session.Source() == session.SourceEnv {
				ui.OK(a.out, "token is provided by NOTES_TOKEN env var (nothing to delete)")
				return nil
			}
			if err := a.session.Logout(); err != nil {
				return failure("logout: "+err.Error(), "")
			}
			ui.OK(a.out, "logged out")
			return nil
		},
	}
}

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the credential comes from and when it expires",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.session.Source()
			if src == "" {
				fmt.Fprintln(a.out, ui.Dim("not logged in"))
				fmt.Fprintln(a.out, "Run: notes auth login")
				return nil
			}
			fmt.Fprintf(a.out, "source:  %s\n", src)
			fmt.Fprintf(a.out, "api:     %s\n", a.client.BaseURL())

			exp, err := a.session.ExpiresAt()
			switch {
			case err != nil:
				fmt.Fprintln(a.out, "expires: (unreadable credential)")
			case exp == nil:
				fmt.Fprintln(a.out, "expires: never")
			default:
				fmt.Fprintf(a.out, "expires: %s\n", exp.UTC().Format(time.RFC3339))
			}

			state := ui.C(ui.Current().Success, "valid")
			if err := a.session.Check(); err != nil {
				state = ui.C(ui.Current().Error, "unusable ("+err.Error()+")")
			}
			fmt.Fprintf(a.out, "state:   %s\n", state)
			fmt.Fprintln(a.out, ui.Dim("env override: NOTES_TOKEN"))
			return nil
		},
	}
}

// whoami decodes the credential's claims locally without verifying them.
func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims carried by the credential",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := a.session.Claims()
			switch {
			case errors.Is(err, session.ErrNoCredential):
				return errSession
			case errors.Is(err, session.ErrMalformedCredential):
				fmt.Fprintln(a.out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(a.out, "source:", a.session.Source())
				return nil
			case err != nil:
				return err
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "JWT payload:")
			fmt.Fprintln(a.out, string(b))
			return nil
		},
	}
}
