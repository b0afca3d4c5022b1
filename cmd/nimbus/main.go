// Nimbus is a gateway for cloud inference APIs that multiplexes requests
// across a pool of accounts.
//
// It accepts the same HTTP API as the upstream service and forwards each
// request with the credential of a healthy account, transparently failing
// over to another account when one is rate limited or erroring:
//   - Least-used or round-robin account selection
//   - Rate-limit cooldowns with exponential escalation
//   - Automatic disable of accounts with revoked credentials
//   - Hot reload of the account file on change
//   - Admin endpoints for pool status and manual unblock
//
// Usage:
//
//	# Start the gateway with default configuration
//	nimbus run
//
//	# Start with a custom configuration file
//	nimbus run --config /path/to/config.yaml
//
//	# Validate configuration and the account source
//	nimbus validate
//
//	# List configured accounts (keys redacted)
//	nimbus accounts
//
//	# Show version information
//	nimbus version
package main

func main() {
	Execute()
}
