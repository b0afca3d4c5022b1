// Package config provides configuration loading, defaulting, and validation
// for the Nimbus gateway.
//
// Configuration is loaded from a YAML file, defaults are applied for any
// unset fields, and the result is validated as a whole so that every
// problem is reported at once. Environment variables of the form
// NIMBUS_SECTION_FIELD override file values.
//
// Example usage:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
