package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/fieldplan/internal/cli/formatter"
	"github.com/alexanderramin/fieldplan/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate planned work over a period",
	}

	cmd.AddCommand(newReportInterventionsCmd(app), newReportTopResourcesCmd(app))

	return cmd
}

type periodOpts struct {
	month, from, to string
}

func (p *periodOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.month, "month", "", "Month to report (YYYY-MM, default current month)")
	cmd.Flags().StringVar(&p.from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "Period end (YYYY-MM-DD)")
}

func newReportInterventionsCmd(app *App) *cobra.Command {
	var (
		period   periodOpts
		client   string
		resource string
		typeID   string
	)

	cmd := &cobra.Command{
		Use:   "interventions",
		Short: "Total intervention quantities by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := periodFlags(period.month, period.from, period.to, app.today())
			if err != nil {
				return err
			}
			f := domain.InterventionReportFilter{From: from, To: to, ClientName: client, Username: resource}
			if typeID != "" {
				f.TypeID, err = strconv.ParseInt(typeID, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid --type %q", typeID)
				}
			}
			totals, err := app.Planning.InterventionsReport(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s",
				formatter.Header(fmt.Sprintf("Interventions %s .. %s", from.Format(domain.DayLayout), to.Format(domain.DayLayout))),
				formatter.FormatInterventionReport(totals))
			return nil
		},
	}

	period.bind(cmd)
	cmd.Flags().StringVar(&client, "client", "", "Only rows of this client name")
	cmd.Flags().StringVar(&resource, "resource", "", "Only rows assigned to this username")
	cmd.Flags().StringVar(&typeID, "type", "", "Only this intervention type id")

	return cmd
}

func newReportTopResourcesCmd(app *App) *cobra.Command {
	var (
		period periodOpts
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "top-resources",
		Short: "Rank resources by the number of rows they are assigned to",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := periodFlags(period.month, period.from, period.to, app.today())
			if err != nil {
				return err
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be positive")
			}
			totals, err := app.Planning.TopResourcesReport(cmd.Context(), from, to, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s",
				formatter.Header(fmt.Sprintf("Top resources %s .. %s", from.Format(domain.DayLayout), to.Format(domain.DayLayout))),
				formatter.FormatTopResources(totals))
			return nil
		},
	}

	period.bind(cmd)
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of resources to show")

	return cmd
}
