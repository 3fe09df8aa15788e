package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Data.LivePath == "" {
		return fmt.Errorf("data.live_path must not be empty")
	}
	if c.Data.BackupRetention < 1 {
		return fmt.Errorf("data.backup_retention must be >= 1 (got %d)", c.Data.BackupRetention)
	}
	if c.Data.MaxDepth < 0 {
		return fmt.Errorf("data.max_depth must be >= 0 (got %d)", c.Data.MaxDepth)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}
