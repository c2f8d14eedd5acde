// Package cmd is the runplan-sync command line. It drives the Runplan
// connector for one linked account, configured from the environment.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kwoodhouse93/runplan-sync/runplan"
	"github.com/kwoodhouse93/runplan-sync/store"
)

var rootCmd = &cobra.Command{
	Use:   "runplan-sync",
	Short: "Sync activities with Runplan",
	Long: `runplan-sync links a Runplan account, lists and downloads its activities
and uploads activities to it.

Configuration is read from the environment (RUNPLAN_*, HTTP_TIMEOUT,
POSTGRES_CONNECTION_URL, LOG_LEVEL).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var authorizeURLCmd = &cobra.Command{
	Use:   "authorize-url",
	Short: "Print the URL that starts linking an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			return a.authorizeURL()
		})
	},
}

var authenticateCmd = &cobra.Command{
	Use:   "authenticate CODE",
	Short: "Exchange an authorization code for a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			return a.authenticate(cmd.Context(), args[0])
		})
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke RUNPLAN_TOKEN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			return a.revoke(cmd.Context())
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exhaustive, _ := cmd.Flags().GetBool("exhaustive")
		return withApp(cmd, true, func(a *app) error {
			return a.list(cmd.Context(), exhaustive)
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download ID",
	Short: "Download one activity with laps and samples as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			return a.download(cmd.Context(), args[0])
		})
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload an activity JSON file and print the Runplan id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			return a.uploadFile(cmd.Context(), args[0])
		})
	},
}

// withApp builds the app from the environment, opening the ledger when
// useLedger is set and a database is configured.
func withApp(cmd *cobra.Command, useLedger bool, run func(a *app) error) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(config.LogLevel)
	if err != nil {
		return err
	}
	api, err := newRunplanAPI(config, logger)
	if err != nil {
		return err
	}

	a := &app{
		runplan: api,
		auth:    runplan.Authorization{OAuthToken: config.Token},
		out:     cmd.OutOrStdout(),
		logger:  logger,
	}
	if useLedger && config.PostgresConnectionURL != "" {
		s, err := store.New(cmd.Context(), config.PostgresConnectionURL)
		if err != nil {
			return err
		}
		defer s.Cleanup()
		if err := s.Migrate(cmd.Context()); err != nil {
			return err
		}
		a.ledger = s
	}
	return explain(run(a))
}

// explain adds what the user can do about errors that need them.
func explain(err error) error {
	if errors.Is(err, runplan.ErrUnauthorized) {
		return errors.Wrap(err, "token rejected, link the account again with authorize-url and authenticate")
	}
	return err
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	listCmd.Flags().Bool("exhaustive", false, "Fetch every page instead of only the first")

	rootCmd.AddCommand(authorizeURLCmd)
	rootCmd.AddCommand(authenticateCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(uploadCmd)
}
