// Package cli implements the notes command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/notes/internal/config"
	"github.com/idilsaglam/notes/internal/gateway"
	"github.com/idilsaglam/notes/internal/notebook"
	"github.com/idilsaglam/notes/internal/session"
	"github.com/idilsaglam/notes/internal/store/jsonstore"
	"github.com/idilsaglam/notes/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage or authentication.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const loginHint = "session expired or missing, run `notes auth login`"

// exitError carries the exit code for a failed command.
type exitError struct {
	code int
	msg  string
	hint string
}

func (e *exitError) Error() string { return e.msg }

func usageError(format string, args ...any) error {
	return &exitError{code: ExitUsage, msg: fmt.Sprintf(format, args...)}
}

func failure(msg, hint string) error {
	return &exitError{code: ExitError, msg: msg, hint: hint}
}

var (
	errSession    = &exitError{code: ExitUsage, msg: loginHint}
	errEnvSession = &exitError{
		code: ExitUsage,
		msg:  "NOTES_TOKEN holds an expired or unusable credential",
		hint: "stored credentials were kept; unset NOTES_TOKEN or replace it",
	}
)

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

// App holds what every command needs once flags and config are resolved.
type App struct {
	in       io.Reader
	out, err io.Writer

	apiURL  string
	theme   string
	debug   bool
	color   bool
	noColor bool

	cfg     *config.Config
	session *session.Session
	client  *gateway.Client
	logFile *os.File
}

// Run executes args and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &App{in: stdin, out: stdout, err: stderr}
	defer app.close()

	root := app.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		ui.Fail(stderr, ee.msg)
		if ee.hint != "" {
			ui.Hint(stderr, ee.hint)
		}
		return ee.code
	}
	ui.Fail(stderr, err.Error())
	return ExitError
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "notes",
		Short: "Categorized notes in your terminal",
		Long: `notes keeps categorized text notes on a remote notes service.
Run it without a subcommand to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError("unknown command %q, see `notes --help`", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runDashboard,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.apiURL, "api-url", "", "notes service root (overrides NOTES_API_URL)")
	pf.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	pf.BoolVar(&a.debug, "debug", false, "log debug output and HTTP traffic")
	pf.BoolVar(&a.color, "color", false, "color output even when stdout is not a terminal")
	pf.BoolVar(&a.noColor, "no-color", false, "never color output")

	root.AddCommand(
		a.authCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.categoriesCmd(),
	)
	return root
}

// setup resolves config, logging, the session and the gateway client.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return failure("config: "+err.Error(), "")
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("theme") {
		cfg.Theme = a.theme
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(a.color, a.noColor)
	logOut := a.err
	if cmd == cmd.Root() {
		f, err := cfg.OpenLogFile()
		if err != nil {
			return failure("log: "+err.Error(), "")
		}
		a.logFile = f
		logOut = f
	}
	config.InitLogger(logOut, cfg.LogLevel, cfg.Debug)

	opts := []session.Option{}
	if cfg.Token != "" {
		opts = append(opts, session.WithEnvToken(cfg.Token))
	}
	a.session = session.New(jsonstore.New(cfg.Home), opts...)

	a.client, err = gateway.New(cfg.APIURL, a.session,
		gateway.WithHTTPTimeout(cfg.Timeout),
		gateway.WithDebugLogging(cfg.Debug),
	)
	if err != nil {
		return usageError("%v", err)
	}
	log.Debug().Str("api", a.client.BaseURL()).Str("home", cfg.Home).Msg("configured")
	return nil
}

func (a *App) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// requireSession runs the session guard. A redirect ends the command with
// the login hint.
func (a *App) requireSession() error {
	redirected := ""
	guard := session.NewGuard(a.session, func(target string) { redirected = target })
	if !guard.EnsureSession() {
		log.Debug().Str("redirect", redirected).Msg("no usable session")
		return a.sessionError()
	}
	return nil
}

// endSession drops a credential the server rejected. A credential from
// NOTES_TOKEN is left alone along with the stored one.
func (a *App) endSession() error {
	if a.session.Source() == session.SourceEnv {
		return errEnvSession
	}
	if err := a.session.Logout(); err != nil {
		log.Error().Err(err).Msg("purge credentials")
	}
	return errSession
}

func (a *App) sessionError() error {
	if a.session.Source() == session.SourceEnv {
		return errEnvSession
	}
	return errSession
}

// remote translates gateway failures. A 401 purges the stored credential
// and sends the user back to login.
func (a *App) remote(err error) error {
	if err == nil {
		return nil
	}
	if gateway.IsUnauthorized(err) {
		return a.endSession()
	}
	switch {
	case errors.Is(err, notebook.ErrNotFound):
		return failure(err.Error(), "Hint: run `notes ls` to see note ids")
	case errors.Is(err, notebook.ErrEmptyDraft):
		return usageError("%v", err)
	}
	return err
}

// openNotebook returns an initialized store for the guarded session.
func (a *App) openNotebook(ctx context.Context) (*notebook.Store, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	store := notebook.New(a.client)
	if err := store.Initialize(ctx); err != nil {
		return nil, a.remote(err)
	}
	return store, nil
}
