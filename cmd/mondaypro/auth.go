package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/robby/mondaypro/internal/auth"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored monday.com API token",
	}

	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API token in the OS keyring",
		Long: `Login stores a personal API token in the OS keyring.

Without --token the token is read from the first line of stdin:
  echo "$TOKEN" | mondaypro auth login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Paste your monday.com API token: ")
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = line
			}

			if err := auth.SaveToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token to store")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which account the configured credentials belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.cfg.Mode() != auth.ModeOAuth2 {
				if _, err := auth.GetToken(); err != nil {
					return err
				}
			}

			me, err := rt.client.Me(ctx)
			if err != nil {
				return errors.Wrap(err, "authentication check failed")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (user %s) using %s\n", me.Name, me.ID, rt.client.Credential())
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "failed to read token")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no token provided")
	}
	return line, nil
}
