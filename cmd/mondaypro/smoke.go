package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSmokeCmd walks the read path the board view uses against a live account.
func newSmokeCmd() *cobra.Command {
	var boardID string

	cmd := &cobra.Command{
		Use:    "smoke",
		Short:  "Exercise the read-only API calls against a live account",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			client := rt.client

			me, err := client.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Viewer: %s (ID=%s)\n\n", me.Name, me.ID)

			boards, err := client.ListBoards(ctx, 1, 25)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Boards (%d):\n", len(boards))
			for _, b := range boards {
				fmt.Fprintf(w, "  %s: %s (%s)\n", b.ID, b.Name, b.Kind)
			}

			if boardID == "" {
				if len(boards) == 0 {
					return nil
				}
				boardID = boards[0].ID
			}
			fmt.Fprintf(w, "\nUsing board %s\n\n", boardID)

			groups, err := client.GetGroups(ctx, boardID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Groups (%d):\n", len(groups))
			for _, g := range groups {
				fmt.Fprintf(w, "  - %s (ID=%s, color=%s)\n", g.Title, g.ID, g.Color)
			}

			columns, err := client.GetColumns(ctx, boardID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\nColumns (%d):\n", len(columns))
			for _, c := range columns {
				fmt.Fprintf(w, "  - %s (ID=%s, type=%s)\n", c.Title, c.ID, c.Type)
			}

			items, cursor, err := client.GetItems(ctx, boardID, "", 50)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "\nItems (%d, more=%t):\n", len(items), cursor != "")
			for _, it := range items {
				fmt.Fprintf(w, "  [%s] %s\n", it.GroupID, it.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&boardID, "board", "", "Board ID (defaults to the first board)")
	return cmd
}
