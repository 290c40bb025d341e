package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage file groups",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an empty group",
			Args:  cobra.ExactArgs(1),
			RunE:  app.handleGroupCreate,
		},
		newGroupDeleteCmd(app),
		&cobra.Command{
			Use:   "list",
			Short: "List groups in creation order",
			Args:  cobra.NoArgs,
			RunE:  app.handleGroupList,
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Show the files of a group and whether they can be read",
			Args:  cobra.ExactArgs(1),
			RunE:  app.handleGroupShow,
		},
		&cobra.Command{
			Use:   "add <name> <path>...",
			Short: "Add files to a group",
			Args:  cobra.MinimumNArgs(2),
			RunE:  app.handleGroupAdd,
		},
		&cobra.Command{
			Use:   "remove <name> <path>...",
			Short: "Remove files from a group",
			Args:  cobra.MinimumNArgs(2),
			RunE:  app.handleGroupRemove,
		},
	)
	return cmd
}

func newGroupDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a group; its files are left on disk",
		Args:  cobra.ExactArgs(1),
		RunE:  app.handleGroupDelete,
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *App) handleGroupCreate(cmd *cobra.Command, args []string) error {
	if err := a.svc.CreateGroup(cmd.Context(), args[0]); err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created group %s\n", args[0])
	return nil
}

func (a *App) handleGroupDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !confirm(cmd, fmt.Sprintf("Delete group %q?", name)) {
		fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
		return nil
	}
	if err := a.svc.DeleteGroup(cmd.Context(), name); err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", name)
	return nil
}

func (a *App) handleGroupList(cmd *cobra.Command, _ []string) error {
	names := a.svc.Groups()
	if len(names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no groups")
		return nil
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "GROUP\tFILES")
	for _, name := range names {
		paths, _ := a.svc.Paths(name)
		fmt.Fprintf(tw, "%s\t%d\n", name, len(paths))
	}
	return tw.Flush()
}

func (a *App) handleGroupShow(cmd *cobra.Command, args []string) error {
	files, err := a.svc.GroupFiles(args[0])
	if err != nil {
		return fail(err)
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "group %s has no files\n", args[0])
		return nil
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "PATH\tFORMAT\tSTATUS")
	for _, f := range files {
		format, status := f.Format, "ok"
		if !f.Supported {
			format, status = "-", "skipped"
		}
		if !f.Exists {
			status = "missing"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Path, format, status)
	}
	return tw.Flush()
}

func (a *App) handleGroupAdd(cmd *cobra.Command, args []string) error {
	paths, err := absPaths(args[1:])
	if err != nil {
		return err
	}
	n, err := a.svc.AddFiles(cmd.Context(), args[0], paths)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d file(s) to %s\n", n, args[0])
	return nil
}

func (a *App) handleGroupRemove(cmd *cobra.Command, args []string) error {
	paths, err := absPaths(args[1:])
	if err != nil {
		return err
	}
	n, err := a.svc.RemoveFiles(cmd.Context(), args[0], paths)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d file(s) from %s\n", n, args[0])
	return nil
}
