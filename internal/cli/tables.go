package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect and manage saved tables",
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved table",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleTablesShow,
	}
	show.Flags().Int("rows", 0, "number of rows to show (0 shows all)")
	show.Flags().Bool("schema", false, "print column kinds instead of rows")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved table",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleTablesDelete,
	}
	del.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved tables",
			Args:  cobra.NoArgs,
			RunE:  app.handleTablesList,
		},
		show,
		del,
		&cobra.Command{
			Use:   "export <name> <path>",
			Short: "Write a saved table to a .csv or .xlsx file",
			Args:  cobra.ExactArgs(2),
			RunE:  app.handleTablesExport,
		},
	)
	return cmd
}

func (a *App) handleTablesList(cmd *cobra.Command, _ []string) error {
	names := a.svc.Tables(cmd.Context())
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved tables")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
	return nil
}

func (a *App) handleTablesShow(cmd *cobra.Command, args []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	schema, _ := cmd.Flags().GetBool("schema")

	t, err := a.svc.Table(cmd.Context(), args[0])
	if err != nil {
		return fail(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rows x %d columns\n", args[0], t.Len(), t.Width())
	if schema {
		return renderSchema(out, t)
	}
	if rows > 0 {
		t = t.Head(rows)
	}
	return renderTable(out, t)
}

func (a *App) handleTablesDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirm(cmd, fmt.Sprintf("Delete saved table %q?", name)) {
		fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
		return nil
	}
	if !a.svc.DeleteTable(cmd.Context(), name) {
		fmt.Fprintf(cmd.OutOrStdout(), "no saved table named %s\n", name)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
	return nil
}

func (a *App) handleTablesExport(cmd *cobra.Command, args []string) error {
	if err := a.svc.ExportTable(cmd.Context(), args[0], args[1]); err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", args[0], args[1])
	return nil
}
