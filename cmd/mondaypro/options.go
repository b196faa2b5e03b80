package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/robby/mondaypro/internal/domain"
	"github.com/robby/mondaypro/internal/operations"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func newOptionsCmd() *cobra.Command {
	var (
		boardID string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "options <boards|groups|columns>",
		Short: "List selectable boards, groups or columns",
		Long: `Options lists the values accepted by boardId, groupId and columnId parameters.

Examples:
  mondaypro options boards
  mondaypro options groups --board 1234`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"boards", "groups", "columns"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "boards" && boardID == "" {
				return fmt.Errorf("%s requires --board", args[0])
			}

			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			var opts []domain.Option
			switch args[0] {
			case "boards":
				opts, err = operations.LoadBoards(ctx, rt.client)
			case "groups":
				opts, err = operations.LoadGroups(ctx, rt.client, boardID)
			case "columns":
				opts, err = operations.LoadColumns(ctx, rt.client, boardID)
			default:
				return fmt.Errorf("unknown option list %q", args[0])
			}
			if err != nil {
				return err
			}

			if output == "table" {
				printOptions(cmd.OutOrStdout(), opts)
				return nil
			}
			return writeOutput(cmd.OutOrStdout(), output, opts)
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board ID for groups and columns")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func printOptions(w io.Writer, opts []domain.Option) {
	width := len("ID")
	for _, o := range opts {
		width = max(width, len(o.Value))
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s  %s", width, "ID", "NAME")))
	for _, o := range opts {
		line := fmt.Sprintf("%-*s  %s", width, o.Value, o.Name)
		if o.Description != "" {
			line += "  (" + o.Description + ")"
		}
		fmt.Fprintln(w, line)
	}
}
