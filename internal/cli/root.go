// Package cli is the command-line front end. Each command is a thin wrapper
// that parses arguments, calls the core service, and prints the result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dfmanager/internal/core"
)

// App holds the dependencies shared by every command.
type App struct {
	svc *core.Service
}

func NewApp(svc *core.Service) *App {
	return &App{svc: svc}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dfmanager",
		Short:         "Group tabular files, merge them into one table, and save the result",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newGroupCmd(app),
		newPreviewCmd(app),
		newSaveCmd(app),
		newTablesCmd(app),
	)
	return cmd
}

// Execute runs the command line in args and prints any error to stderr.
// Errors raised by the service are printed with their user message and code.
func Execute(ctx context.Context, app *App, args []string) error {
	root := newRootCmd(app)
	root.SetArgs(args)
	return run(ctx, root)
}

func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var ue *core.UserError
	switch {
	case errors.As(err, &ue) && core.IsUserFacing(ue.Technical):
		fmt.Fprintf(root.ErrOrStderr(), "Error: %s\n  %v\n", core.FormatUserError(ue.Technical), ue.Technical)
	case ue != nil:
		// No specific message; the technical error is more useful than ERR000.
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", ue.Technical)
	default:
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

// fail wraps a service error so run prints its user message.
func fail(err error) error {
	if err == nil {
		return nil
	}
	return core.NewUserError(err)
}

// policyFlag maps the --nulls flag to a policy; empty means the service default.
func policyFlag(s string) core.NullPolicy {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return core.ParseNullPolicy(s)
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		out[i] = abs
	}
	return out, nil
}

// confirm asks a yes/no question on the command's input. Only "y" or "yes"
// count as consent.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
