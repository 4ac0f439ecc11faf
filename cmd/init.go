package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/dropkit/internal/config"
	"github.com/marcus/dropkit/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the task database and default lists",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("sample", false, "Seed a handful of sample tasks")
	initCmd.Flags().Bool("write-config", false, "Write the default config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Initialize(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	lists := []struct {
		id, title string
	}{
		{"backlog", "Backlog"},
		{"today", "Today"},
	}
	for i, l := range lists {
		if err := st.EnsureList(l.id, l.title, i); err != nil {
			return err
		}
	}

	if sample, _ := cmd.Flags().GetBool("sample"); sample {
		if err := seedSample(st); err != nil {
			return err
		}
	}

	if write, _ := cmd.Flags().GetBool("write-config"); write {
		if err := config.Save(cfg); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized %s\n", st.Path())
	return nil
}

func seedSample(st *store.Store) error {
	samples := []struct {
		list, name, notes string
	}{
		{"backlog", "write the readme", ""},
		{"backlog", "wire up ci", "github actions"},
		{"today", "review open prs", ""},
	}
	for _, s := range samples {
		if _, err := st.CreateTask(s.list, s.name, s.notes); err != nil {
			return err
		}
	}
	return nil
}
