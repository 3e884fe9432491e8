// Package config handles configuration management for relocate.
// It layers embedded TOML defaults, an optional project config file,
// environment variables and command-line overrides with koanf.
package config
