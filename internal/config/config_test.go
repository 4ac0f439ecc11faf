package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marcus/dropkit/pkg/dnd"
)

func TestLoad(t *testing.T) {
	t.Run("defaults when no file", func(t *testing.T) {
		t.Setenv("DROPKIT_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Database.Path == "" {
			t.Fatal("default database path should not be empty")
		}
		if !cfg.UI.Mouse {
			t.Fatal("mouse should default to enabled")
		}
		if len(cfg.Drag.Operations) != 1 || cfg.Drag.Operations[0] != "move" {
			t.Fatalf("default operations = %v, want [move]", cfg.Drag.Operations)
		}
		if !cfg.Drag.TypeSet().Contains("text/plain") {
			t.Fatalf("default types = %v, want text/plain accepted", cfg.Drag.Types)
		}
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		body := `[database]
path = "/tmp/dropkit-test.db"

[drag]
types = ["text/plain"]
operations = ["copy", "move"]

[ui]
mouse = false
repeat = 40
`
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}
		t.Setenv("DROPKIT_CONFIG", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got, want := cfg.Database.Path, "/tmp/dropkit-test.db"; got != want {
			t.Fatalf("database path = %q, want %q", got, want)
		}
		if cfg.UI.Mouse {
			t.Fatal("file should disable the mouse")
		}
		if got, want := cfg.UI.Repeat, 40; got != want {
			t.Fatalf("repeat = %d, want %d", got, want)
		}
		if len(cfg.Drag.Operations) != 2 || cfg.Drag.Operations[0] != "copy" {
			t.Fatalf("operations = %v, want [copy move]", cfg.Drag.Operations)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[database]\npath = \"/tmp/from-file.db\"\n"), 0o644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}
		t.Setenv("DROPKIT_CONFIG", path)
		t.Setenv("DROPKIT_DATABASE_PATH", "/tmp/from-env.db")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if got, want := cfg.Database.Path, "/tmp/from-env.db"; got != want {
			t.Fatalf("database path = %q, want %q", got, want)
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("DROPKIT_CONFIG", path)

	want := Config{
		Database: DatabaseConfig{Path: "/tmp/saved.db"},
		Drag: DragConfig{
			Types:      []string{"text/plain"},
			Operations: []string{"move", "copy"},
		},
		UI: UIConfig{Mouse: true, Repeat: 25},
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Database.Path != want.Database.Path {
		t.Fatalf("database path = %q, want %q", got.Database.Path, want.Database.Path)
	}
	if got.UI.Repeat != want.UI.Repeat {
		t.Fatalf("repeat = %d, want %d", got.UI.Repeat, want.UI.Repeat)
	}
	if len(got.Drag.Operations) != 2 || got.Drag.Operations[1] != "copy" {
		t.Fatalf("operations = %v, want [move copy]", got.Drag.Operations)
	}
}

func TestDragConfigMapping(t *testing.T) {
	d := DragConfig{
		Types:      []string{"text/plain"},
		Operations: []string{"copy", "bogus", "MOVE"},
	}

	ops := d.DropOperations()
	if len(ops) != 2 || ops[0] != dnd.OperationCopy || ops[1] != dnd.OperationMove {
		t.Fatalf("operations = %v, want [copy move]", ops)
	}

	ts := d.TypeSet()
	if !ts.Contains("text/plain") || ts.Contains("application/json") {
		t.Fatalf("type set = %v", ts.Values())
	}

	if ops := (DragConfig{}).DropOperations(); len(ops) != 1 || ops[0] != dnd.OperationMove {
		t.Fatalf("empty config operations = %v, want [move]", ops)
	}
}
