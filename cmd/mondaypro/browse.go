package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robby/mondaypro/internal/store"
	"github.com/robby/mondaypro/internal/tui"
	"github.com/spf13/cobra"
)

func newBrowseCmd() *cobra.Command {
	var boardFlag string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open a board as an interactive kanban view",
		Long: `Browse shows a board's items as columns per group.

Move items between groups, filter, open items in the browser and read or post
updates without leaving the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return fmt.Errorf("failed to create monday.com client: %w\n\nPlease authenticate using:\n  mondaypro auth login\nor set the MONDAY_API_TOKEN environment variable", err)
			}
			defer rt.Close()

			// Log lines would tear the alt screen
			rt.log.SetOutput(io.Discard)

			app := tui.NewAppModel(rt.client, store.New(), ctx, boardFlag)

			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("program error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&boardFlag, "board", "", "Board ID. Skips the board picker.")

	return cmd
}
