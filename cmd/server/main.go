package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/staffboard/internal/config"
	"github.com/rpggio/staffboard/internal/domain/notification"
	"github.com/rpggio/staffboard/internal/scheduler"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "staffboard",
		Short:         "Employee dashboard backend",
		Long:          `staffboard serves daily activity timelines and notification centers over MCP and JSON-RPC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(runServe)
		},
	}

	apiKeyCmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}
	apiKeyAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an API key for a user and print the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			token, _ := cmd.Flags().GetString("token")
			description, _ := cmd.Flags().GetString("description")
			if token == "" {
				token = uuid.NewString()
			}
			return withApp(func(a *app) error {
				if err := a.keys.AddAPIKey(context.Background(), token, userID, description); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	apiKeyAddCmd.Flags().String("user", "", "user the key acts as")
	apiKeyAddCmd.Flags().String("token", "", "token to register (generated when empty)")
	apiKeyAddCmd.Flags().String("description", "", "free-form note")
	_ = apiKeyAddCmd.MarkFlagRequired("user")
	apiKeyCmd.AddCommand(apiKeyAddCmd)

	notifyCmd := &cobra.Command{
		Use:   "notify [message]",
		Short: "Send a notification to a user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetString("user")
			kind, _ := cmd.Flags().GetString("type")
			return withApp(func(a *app) error {
				n, err := a.notifications.Create(context.Background(), notification.CreateRequest{
					UserID:  userID,
					Type:    notification.Type(kind),
					Message: strings.Join(args, " "),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				return nil
			})
		},
	}
	notifyCmd.Flags().String("user", "", "recipient user id")
	notifyCmd.Flags().String("type", string(notification.TypeInfo), "info, warning or error")
	_ = notifyCmd.MarkFlagRequired("user")

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete read notifications older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				return scheduler.New(a.notifications, a.cfg.Notifications.Retention, a.logger).RunOnce(context.Background())
			})
		},
	}

	rootCmd.AddCommand(apiKeyCmd, notifyCmd, pruneCmd)
	return rootCmd
}

func withApp(run func(*app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(a)
}
