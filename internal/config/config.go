// Package config loads settings for the dropkit demo binary. Library
// packages under pkg/ take explicit options instead of reading config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/marcus/dropkit/pkg/dnd"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Drag     DragConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// DragConfig gates what the board's lists exchange.
type DragConfig struct {
	// Types are the payload types the lists accept.
	Types []string
	// Operations are the drop operations a drag offers, most preferred
	// first. Recognized values: move, copy, link.
	Operations []string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Mouse bool
	// Repeat is the minimum interval in milliseconds between held-key
	// target moves while dragging. Zero disables throttling.
	Repeat int
}

// Load reads configuration from file and env. Env var overrides use prefix DROPKIT_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "dropkit", "board.db"))
	v.SetDefault("drag.types", []string{"text/plain", "application/x-dropkit-task"})
	v.SetDefault("drag.operations", []string{"move"})
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.repeat", 0)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DROPKIT_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "dropkit"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DROPKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by `dropkit init` to seed an editable file.
func Save(cfg Config) error {
	path := os.Getenv("DROPKIT_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "dropkit", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("drag.types", cfg.Drag.Types)
	v.Set("drag.operations", cfg.Drag.Operations)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("ui.repeat", cfg.UI.Repeat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// TypeSet maps the configured payload types onto a drag accept set.
func (c DragConfig) TypeSet() dnd.TypeSet {
	return dnd.NewTypeSet(c.Types...)
}

// DropOperations maps the configured operation names onto drag operations,
// skipping anything unrecognized. An empty result falls back to move.
func (c DragConfig) DropOperations() []dnd.DropOperation {
	ops := make([]dnd.DropOperation, 0, len(c.Operations))
	for _, name := range c.Operations {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "move":
			ops = append(ops, dnd.OperationMove)
		case "copy":
			ops = append(ops, dnd.OperationCopy)
		case "link":
			ops = append(ops, dnd.OperationLink)
		}
	}
	if len(ops) == 0 {
		ops = append(ops, dnd.OperationMove)
	}
	return ops
}
