package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/observability"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the account ledger.",
	}
	cmd.AddCommand(newAccountsAddCmd())
	cmd.AddCommand(newAccountsListCmd())
	cmd.AddCommand(newAccountsRemoveCmd())
	cmd.AddCommand(newAccountsPrefsCmd())
	cmd.AddCommand(newAccountsStatsCmd())
	return cmd
}

func newAccountsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <platform-id>",
		Short: "Show an account's activity counters.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			snap, err := components.Dispatcher.AccountStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(snap)
		},
	}
}

func newAccountsAddCmd() *cobra.Command {
	var cookies string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an account from a browser-exported cookie string.",
		Long: `Verifies the cookie string against the platform, harvests the profile,
seals the cookies in the vault, and stores the account. The same command
refreshes the session of an already-registered account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			snap, err := components.Dispatcher.Onboard(cmd.Context(), cookies, components.CookieDomain)
			if err != nil {
				return err
			}
			return printJSON(snap)
		},
	}

	cmd.Flags().StringVar(&cookies, "cookies", "", `cookie string ("name=value; name=value")`)
	_ = cmd.MarkFlagRequired("cookies")
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active accounts with masked identities and counters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			snaps, err := components.Dispatcher.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(snaps)
		},
	}
}

func newAccountsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <platform-id>",
		Short: "Remove an account and its stored credentials.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			if err := components.Dispatcher.Offboard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Account removed")
			return nil
		},
	}
}

func newAccountsPrefsCmd() *cobra.Command {
	var (
		delayMs     int
		dailyLimit  int
		autoCleanup bool
	)

	cmd := &cobra.Command{
		Use:   "prefs <platform-id>",
		Short: "Update an account's action pacing and quota preferences.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			var patch schemas.PreferencePatch
			if cmd.Flags().Changed("delay-ms") {
				patch.ActionDelayMs = &delayMs
			}
			if cmd.Flags().Changed("daily-limit") {
				patch.MaxActionsPerDay = &dailyLimit
			}
			if cmd.Flags().Changed("auto-cleanup") {
				patch.AutoCleanup = &autoCleanup
			}

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			prefs, err := components.Dispatcher.UpdateAccountPreferences(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printJSON(prefs)
		},
	}

	cmd.Flags().IntVar(&delayMs, "delay-ms", 0, "delay between batch actions in milliseconds")
	cmd.Flags().IntVar(&dailyLimit, "daily-limit", 0, "maximum actions per day")
	cmd.Flags().BoolVar(&autoCleanup, "auto-cleanup", true, "deactivate automatically when the session expires")
	return cmd
}
