package cli

import (
	"fmt"

	"github.com/alexanderramin/fieldplan/internal/cli/formatter"
	"github.com/alexanderramin/fieldplan/internal/importer"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and import clients, intervention types and resources",
	}

	cmd.AddCommand(newCatalogListCmd(app), newCatalogImportCmd(app))

	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalogs used to fill planning rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.Planning.Catalogs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCatalogs(cat))
			return nil
		},
	}
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import catalogs from a YAML file",
		Long: "Import upserts clients by site_id, intervention types by id and\n" +
			"resources by username. Records missing from the file are kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadCatalogSchema(args[0])
			if err != nil {
				return fmt.Errorf("loading catalog file: %w", err)
			}
			res, err := app.Planning.ImportCatalog(cmd.Context(), schema)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clients, %d intervention types, %d resources\n",
				res.Clients, res.InterventionTypes, res.Resources)
			return nil
		},
	}
}
