package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nimbus-gw/nimbus/pkg/config"
)

var validateFlags struct {
	checkAccounts bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Validate the configuration file without starting the server.

Checks the configuration for structural and semantic errors: malformed
YAML, out-of-range timeouts, unknown strategy names, and so on. With
--accounts the account source is also loaded and checked for duplicate
or incomplete entries.

Examples:
  # Validate the default config
  nimbus validate

  # Validate a specific config and its account source
  nimbus validate --config /etc/nimbus/config.yaml --accounts`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.checkAccounts, "accounts", false, "also load and validate the account source")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ Configuration invalid (%d errors):\n", len(verr.Errors))
			for _, fe := range verr.Errors {
				fmt.Printf("  - %s\n", fe.Error())
			}
			return fmt.Errorf("configuration invalid")
		}
		return err
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)

	if validateFlags.checkAccounts {
		store, cleanup, err := newAccountStore(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := store.Load(context.Background()); err != nil {
			return fmt.Errorf("account source invalid: %w", err)
		}
		fmt.Printf("✓ Account source valid: %d accounts\n", store.Len())
	}

	return nil
}
