package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <group>",
		Short: "Load a group, apply a null policy, and print the first rows",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handlePreview,
	}
	cmd.Flags().String("nulls", "", "null policy: drop, zero, or keep (default from NULL_POLICY)")
	cmd.Flags().Int("rows", 0, "number of rows to show (default from PREVIEW_ROWS)")
	return cmd
}

func newSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <group> <name>",
		Short: "Load a group, apply a null policy, and save the result under name",
		Args:  cobra.ExactArgs(2),
		RunE:  app.handleSave,
	}
	cmd.Flags().String("nulls", "", "null policy: drop, zero, or keep (default from NULL_POLICY)")
	return cmd
}

func (a *App) handlePreview(cmd *cobra.Command, args []string) error {
	nulls, _ := cmd.Flags().GetString("nulls")
	rows, _ := cmd.Flags().GetInt("rows")

	p, err := a.svc.Preview(cmd.Context(), args[0], policyFlag(nulls), rows)
	if err != nil {
		return fail(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "group %s, nulls=%s: %d rows x %d columns, %d missing cells\n",
		p.Group, p.Policy, p.Rows, p.Cols, p.Nulls)
	if err := renderTable(out, p.Head); err != nil {
		return err
	}
	if p.Head.Len() < p.Rows {
		fmt.Fprintf(out, "... %d more rows\n", p.Rows-p.Head.Len())
	}
	return nil
}

func (a *App) handleSave(cmd *cobra.Command, args []string) error {
	nulls, _ := cmd.Flags().GetString("nulls")

	t, err := a.svc.ProcessAndSave(cmd.Context(), args[0], args[1], policyFlag(nulls))
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s: %d rows x %d columns\n", args[1], t.Len(), t.Width())
	return nil
}
