// Package config loads and validates storyreel's TOML configuration.
//
// Configuration is resolved from an explicit --config path, a project-local
// storyreel.toml, or ~/.config/storyreel/config.toml, in that order. All path
// fields are expanded and absolute after Load returns.
package config
