package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// WriteSnapshot serializes the active configuration to path as TOML. Run
// finalization persists a snapshot alongside the other run artifacts so a
// finished run records exactly the settings it ran with.
func (c *Config) WriteSnapshot(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config snapshot: %w", err)
	}
	return nil
}
