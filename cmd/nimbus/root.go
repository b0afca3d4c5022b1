package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nimbus",
	Short: "Nimbus - cloud inference API gateway with account failover",
	Long: `Nimbus fronts a cloud inference API with a pool of accounts.

It accepts the upstream service's own HTTP API and forwards each request
with the credential of a healthy account, transparently failing over to
another account when one is rate limited or erroring:
  - Least-used or round-robin account selection
  - Rate-limit cooldowns with exponential escalation
  - Automatic disable of accounts with revoked credentials
  - Hot reload of the account file on change
  - Admin endpoints for pool status and manual unblock`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
