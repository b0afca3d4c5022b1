package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/telemetry/logging"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List configured accounts",
	Long: `List the accounts in the configured account source.

API keys are redacted to their first four characters. The listing
reflects the source on disk, not the live state of a running server;
use the /admin/status endpoint for live pool state.

Examples:
  # List accounts from the default config's source
  nimbus accounts

  # List accounts from another config
  nimbus accounts --config /etc/nimbus/config.yaml`,
	RunE: listAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func listAccounts(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, cleanup, err := newAccountStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	all := store.All()
	fmt.Printf("%d accounts (%s):\n", len(all), cfg.Accounts.Path)
	for i, acct := range all {
		desc := acct.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Printf("  %2d. %-20s key=%s  %s\n", i+1, acct.Name, logging.RedactKey(acct.APIKey), desc)
	}
	return nil
}
