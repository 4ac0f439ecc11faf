package cmd

import (
	"path/filepath"
	"testing"

	"github.com/marcus/dropkit/internal/store"
)

func TestRunInitSeedsListsAndSamples(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DROPKIT_DATABASE_PATH", dbPath)

	if err := initCmd.Flags().Set("sample", "true"); err != nil {
		t.Fatalf("set --sample: %v", err)
	}
	defer initCmd.Flags().Set("sample", "false")

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() after init error = %v", err)
	}
	defer st.Close()

	lists, err := st.Lists()
	if err != nil {
		t.Fatalf("Lists() error = %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("Lists() = %d lists, want 2", len(lists))
	}
	if lists[0].ID != "backlog" || lists[1].ID != "today" {
		t.Errorf("list order = %s, %s; want backlog, today", lists[0].ID, lists[1].ID)
	}

	tasks, err := st.AllTasks()
	if err != nil {
		t.Fatalf("AllTasks() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Errorf("AllTasks() = %d tasks, want 3 samples", len(tasks))
	}
}

func TestRunInitIsRepeatable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "board.db")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DROPKIT_DATABASE_PATH", dbPath)

	for i := 0; i < 2; i++ {
		if err := runInit(initCmd, nil); err != nil {
			t.Fatalf("runInit() run %d error = %v", i+1, err)
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer st.Close()

	lists, err := st.Lists()
	if err != nil {
		t.Fatalf("Lists() error = %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("repeated init duplicated lists: %d", len(lists))
	}
}
