package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/marcus/dropkit/internal/board"
	"github.com/marcus/dropkit/internal/config"
	"github.com/marcus/dropkit/internal/store"
)

// typeList is a pflag.Value collecting media types, comma-separated or
// repeated.
type typeList []string

var _ pflag.Value = (*typeList)(nil)

func (t *typeList) String() string { return strings.Join(*t, ",") }

func (t *typeList) Type() string { return "types" }

func (t *typeList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		*t = append(*t, part)
	}
	return nil
}

var acceptTypes typeList

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive task board",
	Long: `Open the task board: lists side by side, every task in a resizable
table below. Drag with d / arrows / enter, or with the mouse.`,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().Var(&acceptTypes, "accept", "Payload types the lists accept (overrides config)")
	boardCmd.Flags().Bool("mouse", true, "Enable mouse support")
	boardCmd.Flags().Bool("debug", false, "Write a JSON debug log to dropkit.log")
}

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(acceptTypes) > 0 {
		cfg.Drag.Types = acceptTypes
	}
	if cmd.Flags().Changed("mouse") {
		cfg.UI.Mouse, _ = cmd.Flags().GetBool("mouse")
	}

	// The TUI owns stderr and stdout; debug logging goes to a file.
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		f, err := tea.LogToFile("dropkit.log", "debug")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	} else {
		slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("dropkit board needs a terminal")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	// Limit connections for the long-running board process.
	st.SetMaxOpenConns(1)

	m, err := board.New(st, cfg)
	if err != nil {
		return err
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	_, err = tea.NewProgram(m, opts...).Run()
	return err
}
