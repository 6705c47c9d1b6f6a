// Package cli wires the pre-commit-hooks command tree: configuration loading
// through Viper, structured logging through zap, and the add-license-headers
// and tech-review subcommands.
package cli
