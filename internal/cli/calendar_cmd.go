package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/fieldplan/internal/calendar"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errNoCalendar = errors.New("no calendar configured (set calendar.url in the config file)")

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage the calendar access token",
	}

	cmd.AddCommand(
		newCalendarLoginCmd(app),
		newCalendarLogoutCmd(app),
		newCalendarAuthURLCmd(app),
	)

	return cmd
}

func newCalendarLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a calendar access token in the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Tokens == nil {
				return errNoCalendar
			}
			if token == "" {
				if !app.interactive() {
					return fmt.Errorf("--token is required when not running in a terminal")
				}
				desc := "Paste the access token granted by the calendar."
				if u := app.OAuth.AuthorizationURL(uuid.NewString()); u != "" {
					desc = "Authorize at:\n" + u + "\n\n" + desc
				}
				if err := tokenForm(desc, &token).Run(); err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("token is empty")
			}
			if err := app.Tokens.SetToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Calendar token stored.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token (prompted for when omitted)")

	return cmd
}

func newCalendarLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored calendar access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Tokens == nil {
				return errNoCalendar
			}
			err := app.Tokens.DeleteToken()
			if errors.Is(err, calendar.ErrNoToken) {
				fmt.Fprintln(cmd.OutOrStdout(), "No calendar token stored.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Calendar token removed.")
			return nil
		},
	}
}

func newCalendarAuthURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auth-url",
		Short: "Print the URL that grants calendar access",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := app.OAuth.AuthorizationURL(uuid.NewString())
			if u == "" {
				return fmt.Errorf("no authorization endpoint configured (set calendar.oauth.auth_url)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}
