package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version string stamped at build time.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "dropkit",
	Short: "Drag-and-drop task lists for the terminal",
	Long: `dropkit - A terminal task board built around keyboard-first drag and drop.

Tasks live in sqlite-backed lists. Pick items up, aim with the arrow keys
or the mouse, and drop them where they belong; every move is saved as it
lands.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))
	})
}
