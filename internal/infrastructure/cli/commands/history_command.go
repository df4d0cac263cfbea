package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/medilogic/internal/application/intake"
	"github.com/doeshing/medilogic/internal/domain"
	"github.com/doeshing/medilogic/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(rt *Runtime) *cobra.Command {
	var sessionID string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the analyses recorded in a session",
	}
	historyCmd.PersistentFlags().StringVar(&sessionID, FlagSession, domain.DefaultCLISession, "History session to use")

	open := func(cmd *cobra.Command, out io.Writer) (*intake.Controller, *helpers.Terminal, func(), error) {
		container, err := rt.Container(cmd.Context())
		if err != nil {
			return nil, nil, nil, err
		}
		term := helpers.NewTerminal(out, container.Config.Vocabulary)
		controller, closeFn, err := helpers.OpenController(cmd.Context(), container, sessionID, term)
		if err != nil {
			return nil, nil, nil, err
		}
		return controller, term, closeFn, nil
	}

	historyCmd.AddCommand(
		newHistoryListCommand(open),
		newHistoryViewCommand(open),
		newHistoryReuseCommand(open),
		newHistoryClearCommand(open),
	)
	return historyCmd
}

type openFunc func(cmd *cobra.Command, out io.Writer) (*intake.Controller, *helpers.Terminal, func(), error)

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, term, closeFn, err := open(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeFn()

			term.SetVisible(true)
			controller.RefreshHistory(cmd.Context())
			return nil
		},
	}
}

// newHistoryViewCommand creates the 'history view' subcommand
func newHistoryViewCommand(open openFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "view <index>",
		Short: "Show the stored result of an entry without calling the rule engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			controller, _, closeFn, err := open(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeFn()

			return viewEntry(cmd.Context(), controller, index)
		},
	}
}

// newHistoryReuseCommand creates the 'history reuse' subcommand
func newHistoryReuseCommand(open openFunc) *cobra.Command {
	var run bool

	cmd := &cobra.Command{
		Use:   "reuse <index>",
		Short: "Restore the form of an entry, optionally re-running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			controller, term, closeFn, err := open(cmd, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeFn()

			if !controller.Reuse(cmd.Context(), index) {
				return fmt.Errorf(ErrNoHistoryEntry, index)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, MsgFormRestored)
			fmt.Fprintf(out, "  medilogic analyze %s\n", helpers.FlagsFromForm(term.ReadForm()))
			if !run {
				return nil
			}
			fmt.Fprintln(out)
			if _, err := controller.Submit(cmd.Context()); err != nil {
				return ErrReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&run, "run", false, "Submit the restored form immediately")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(open openFunc) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded analysis of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes && helpers.IsTerminal(out) {
				if !helpers.PromptForConfirmation(out, cmd.InOrStdin(), MsgConfirmHistoryClear) {
					fmt.Fprintln(out, MsgAborted)
					return nil
				}
			}

			controller, _, closeFn, err := open(cmd, io.Discard)
			if err != nil {
				return err
			}
			defer closeFn()

			controller.ClearHistory(cmd.Context())
			fmt.Fprintln(out, helpers.MsgHistoryCleared)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func viewEntry(ctx context.Context, controller *intake.Controller, index int) error {
	ok, err := controller.View(ctx, index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf(ErrNoHistoryEntry, index)
	}
	return nil
}

func parseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%s: %q", ErrInvalidIndex, raw)
	}
	return index, nil
}
