// Package accounts provides the account credential store for the Nimbus
// gateway.
//
// Accounts are loaded from a configuration source (a JSON/YAML file or a
// SQLite database) at startup and are immutable in identity and credential
// until the next reload. The store exposes the set in configuration order
// and guarantees unique names; runtime health state lives in the health
// package, never here.
//
// An optional fsnotify-based Watcher reloads the store when the account
// file changes on disk.
package accounts
