// Package config loads the command line configuration from a TOML file with
// NAHAN_* environment overrides.
package config
