package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/alexanderramin/fieldplan/internal/service"
	"github.com/spf13/cobra"
)

func newRowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Add, edit and delete planning rows",
		Long: "Rows are addressed by the number shown in the # column of\n" +
			"`fieldplan plan show`. Edits are saved as a draft when the command ends.",
	}

	cmd.AddCommand(
		newRowAddCmd(app),
		newRowSetCmd(app),
		newRowDeleteCmd(app),
		newRowInterventionCmd(app),
	)

	return cmd
}

func requireEditable(sess *service.Session) error {
	if sess.ReadOnly() {
		return fmt.Errorf("%w: planning for %s", domain.ErrReadOnly, sess.Day().Format(domain.DayLayout))
	}
	return nil
}

func rowNumber(sess *service.Session, key string) int {
	for i, r := range sess.Rows() {
		if r.Key == key {
			return i + 1
		}
	}
	return 0
}

func newRowAddCmd(app *App) *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "add DAY|ID DESCRIPTION...",
		Short: "Add a manual row to a planning",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, ok := domain.ParseTimeSlot(slot)
			if !ok {
				return fmt.Errorf("invalid --slot %q (use AM or PM)", slot)
			}
			desc := strings.Join(args[1:], " ")
			return withSession(cmd, app, args[0], func(_ context.Context, sess *service.Session) error {
				if err := requireEditable(sess); err != nil {
					return err
				}
				key, ok := sess.AddManualRow(desc, ts)
				if !ok {
					return fmt.Errorf("cannot add a row to this planning")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added row %d: %s\n", rowNumber(sess, key), desc)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "Time slot of the row (AM or PM)")

	return cmd
}

func newRowSetCmd(app *App) *cobra.Command {
	names := make([]string, len(service.Fields))
	for i, f := range service.Fields {
		names[i] = string(f)
	}

	return &cobra.Command{
		Use:   "set DAY|ID ROW FIELD [VALUE...]",
		Short: "Change one field of a row",
		Long: "Editable fields: " + strings.Join(names, ", ") + ".\n\n" +
			"client takes a site id (no value clears it), material true/false,\n" +
			"time_slot AM, PM or -, resources a list of usernames.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := service.ParseField(args[2])
			if !ok {
				return fmt.Errorf("unknown field %q (valid: %s)", args[2], strings.Join(names, ", "))
			}
			values := args[3:]
			return withSession(cmd, app, args[0], func(_ context.Context, sess *service.Session) error {
				if err := requireEditable(sess); err != nil {
					return err
				}
				key, err := resolveRow(sess, args[1])
				if err != nil {
					return err
				}
				e := service.Edit{Key: key, Field: field}
				if field == service.FieldResources {
					if !sess.ShowResources() {
						return fmt.Errorf("%w: resources are not editable for this planning", domain.ErrNotPermitted)
					}
					e.Values = values
				} else {
					e.Value = strings.Join(values, " ")
				}
				if !sess.Edit(e) {
					return fmt.Errorf("%w: invalid value %q for %s", domain.ErrValidation, strings.Join(values, " "), field)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Row %s: %s updated\n", args[1], field)
				return nil
			})
		},
	}
}

func newRowDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete DAY|ID ROW",
		Short: "Delete a row from a planning",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, args[0], func(ctx context.Context, sess *service.Session) error {
				if err := requireEditable(sess); err != nil {
					return err
				}
				key, err := resolveRow(sess, args[1])
				if err != nil {
					return err
				}
				row, _ := sess.Row(key)
				ok, err := app.confirm(fmt.Sprintf("Delete row %s?", args[1]), row.DisplayTitle(), yes)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
					return nil
				}
				if err := sess.DeleteRow(ctx, key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %s: %s\n", args[1], row.DisplayTitle())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newRowInterventionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "intervention",
		Aliases: []string{"iv"},
		Short:   "Manage the interventions assigned to a row",
	}

	cmd.AddCommand(
		interventionCmd(app, "add DAY|ID ROW TYPE_ID", "Add one unit of an intervention type", 3,
			func(sess *service.Session, key string, typeID int64, _ []string) bool {
				return sess.AddIntervention(key, typeID)
			}),
		interventionCmd(app, "set DAY|ID ROW TYPE_ID QUANTITY", "Set the quantity of an assigned intervention", 4,
			func(sess *service.Session, key string, typeID int64, rest []string) bool {
				return sess.SetInterventionQuantity(key, typeID, rest[0])
			}),
		interventionCmd(app, "remove DAY|ID ROW TYPE_ID", "Remove an intervention from a row", 3,
			func(sess *service.Session, key string, typeID int64, _ []string) bool {
				return sess.RemoveIntervention(key, typeID)
			}),
	)

	return cmd
}

func interventionCmd(app *App, use, short string, nargs int, apply func(*service.Session, string, int64, []string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid intervention type id %q", args[2])
			}
			return withSession(cmd, app, args[0], func(_ context.Context, sess *service.Session) error {
				if err := requireEditable(sess); err != nil {
					return err
				}
				key, err := resolveRow(sess, args[1])
				if err != nil {
					return err
				}
				if !apply(sess, key, typeID, args[3:]) {
					return fmt.Errorf("intervention type %d: %w on row %s", typeID, domain.ErrNotFound, args[1])
				}
				row, _ := sess.Row(key)
				fmt.Fprintf(cmd.OutOrStdout(), "Row %s interventions: %s\n", args[1], formatInterventions(row))
				return nil
			})
		},
	}
}

func formatInterventions(row domain.DetailRow) string {
	if len(row.Interventions) == 0 {
		return "none"
	}
	parts := make([]string, len(row.Interventions))
	for i, iv := range row.Interventions {
		parts[i] = fmt.Sprintf("%s x%d", iv.TypeName, iv.Quantity)
	}
	return strings.Join(parts, ", ")
}
