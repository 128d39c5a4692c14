package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/notes/internal/notebook"
	"github.com/idilsaglam/notes/internal/tui"
)

// runDashboard opens the interactive dashboard for the guarded session.
func (a *App) runDashboard(cmd *cobra.Command, args []string) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if f, ok := a.out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return usageError("the dashboard needs a terminal, try `notes ls`")
	}

	res, err := tui.Run(cmd.Context(), notebook.New(a.client), tui.WithClock(a.session.Now))
	if err != nil {
		return failure("dashboard: "+err.Error(), "")
	}
	if res.Unauthorized {
		log.Info().Msg("dashboard ended on 401")
		return a.endSession()
	}
	return nil
}
