package cli

import (
	"errors"
	"time"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and identity used by CLI commands.
type App struct {
	Planning service.PlanningService
	Actor    domain.Actor

	// Tokens and OAuth back the calendar login commands. Tokens may be nil
	// when no calendar is configured.
	Tokens calendar.TokenStore
	OAuth  calendar.OAuthConfig

	Now           func() time.Time
	IsInteractive func() bool

	// Confirm overrides the interactive yes/no prompt, mainly for tests.
	Confirm func(title string) (bool, error)
}

func (a *App) today() time.Time {
	if a.Now != nil {
		return domain.NormalizeDay(a.Now())
	}
	return domain.NormalizeDay(time.Now())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "fieldplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "fieldplan",
		Short:         "Daily field planning synchronized with the team calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPlanCmd(app),
		newRowCmd(app),
		newCatalogCmd(app),
		newReportCmd(app),
		newCalendarCmd(app),
	)

	return root
}

// ErrorHint returns a follow-up suggestion for err, or "" when there is none.
func ErrorHint(err error) string {
	switch {
	case errors.Is(err, calendar.ErrUnauthorized), errors.Is(err, calendar.ErrNoToken):
		return "run `fieldplan calendar login` to authorize the calendar again"
	case errors.Is(err, domain.ErrReadOnly):
		return "the planning is locked; a privileged user can `fieldplan plan reopen` a future day"
	case errors.Is(err, service.ErrPersistence):
		return "nothing was saved; retry the command"
	}
	return ""
}
