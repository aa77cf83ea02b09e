package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/fieldplan/internal/cli/formatter"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Browse, save, finalize and reopen daily plannings",
	}

	cmd.AddCommand(
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanSaveCmd(app),
		newPlanFinalizeCmd(app),
		newPlanReopenCmd(app),
		newPlanHistoryCmd(app),
	)

	return cmd
}

// openPlan opens the referenced plan as the configured actor. A spinner
// runs on stderr while the calendar and store load in interactive use.
func openPlan(ctx context.Context, cmd *cobra.Command, app *App, ref string) (*service.Session, error) {
	req, err := resolvePlan(ref, app.today())
	if err != nil {
		return nil, err
	}
	req.Actor = app.Actor
	if app.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Loading planning…")
		defer stop()
	}
	return app.Planning.Open(ctx, req)
}

// withSession opens the plan, runs fn and closes the session, which saves
// a draft when fn left edits behind. When fn fails the session is dropped
// without saving.
func withSession(cmd *cobra.Command, app *App, ref string, fn func(ctx context.Context, sess *service.Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := openPlan(ctx, cmd, app, ref)
	if err != nil {
		return err
	}
	warnFeed(cmd.ErrOrStderr(), sess)
	if err := fn(ctx, sess); err != nil {
		return err
	}
	return sess.Close(ctx)
}

func warnFeed(w io.Writer, sess *service.Session) {
	if err := sess.FeedError(); err != nil {
		fmt.Fprintln(w, formatter.Warning("calendar: "+err.Error()))
	}
}

func planView(app *App, sess *service.Session) formatter.PlanView {
	return formatter.PlanView{
		Day:           sess.Day(),
		Today:         app.today(),
		Header:        sess.Header(),
		Rows:          sess.Rows(),
		ReadOnly:      sess.ReadOnly(),
		ShowResources: sess.ShowResources(),
		FeedErr:       sess.FeedError(),
		Orphans:       sess.Orphans(),
	}
}

func newPlanListCmd(app *App) *cobra.Command {
	var month, from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the plannings of a month or period",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := periodFlags(month, from, to, app.today())
			if err != nil {
				return err
			}
			plans, err := app.Planning.List(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(plans, app.today()))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to list (YYYY-MM, default current month)")
	cmd.Flags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD)")

	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DAY|ID",
		Short: "Show a planning merged with today's calendar events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openPlan(ctx, cmd, app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(planView(app, sess)))
			return sess.Close(ctx)
		},
	}
}

func newPlanSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save DAY|ID",
		Short: "Save the planning as a draft, keeping its status",
		Long: "Save stores the merged row set, including rows synthesized from the\n" +
			"calendar, without moving the planning through its lifecycle.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, sess *service.Session) error {
				h, err := sess.Save(ctx, false)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved planning %s %s (%d rows)\n",
					h.Day.Format(domain.DayLayout), formatter.StatusBadge(h), len(sess.Rows()))
				return nil
			})
		},
	}
}

func newPlanFinalizeCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "finalize DAY|ID",
		Short: "Save and advance the planning (NEW -> OPEN -> CLOSED/REVISED)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, sess *service.Session) error {
				if sess.ReadOnly() {
					return fmt.Errorf("%w: planning for %s", domain.ErrReadOnly, sess.Day().Format(domain.DayLayout))
				}
				title := fmt.Sprintf("Finalize planning for %s?", sess.Day().Format(domain.DayLayout))
				ok, err := app.confirm(title, "Finalizing locks the planning for lower roles.", yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Finalize cancelled.")
					return nil
				}
				h, err := sess.Save(ctx, true)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Planning %s is now %s\n",
					h.Day.Format(domain.DayLayout), formatter.StatusBadge(h))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newPlanReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen DAY|ID",
		Short: "Unlock a finalized future planning for another revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveHeaderID(ctx, app, args[0])
			if err != nil {
				return err
			}
			h, err := app.Planning.Reopen(ctx, id, app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reopened planning %s %s\n",
				h.Day.Format(domain.DayLayout), formatter.StatusBadge(h))
			return nil
		},
	}
}

func newPlanHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history DAY|ID",
		Short: "Show the operation log of a planning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveHeaderID(ctx, app, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Planning.History(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(entries))
			return nil
		},
	}
}
