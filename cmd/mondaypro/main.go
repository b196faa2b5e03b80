package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath  string
	metricsAddr string
	verbose     bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mondaypro",
		Short: "monday.com integration node and board browser",
		Long: `mondaypro runs monday.com operations (boards, columns, groups, items,
subitems, webhooks, docs and folders) against the monday.com GraphQL API and
ships a terminal kanban view of a board.

Authentication:
  1. OS keyring: Run 'mondaypro auth login' (preferred)
  2. Environment variable: Set MONDAY_API_TOKEN
  3. OAuth2: Set auth_mode: oAuth2 and the oauth2 section in the config file

Settings are read from --config, a .env file and MONDAY_* variables.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port while the command runs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newOperationsCmd(),
		newOptionsCmd(),
		newBrowseCmd(),
		newAuthCmd(),
		newSmokeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mondaypro %s\n", version)
		},
	}
}
