package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Initialize(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sequentialIDs makes task IDs deterministic within one test.
func sequentialIDs(t *testing.T, prefix string) {
	t.Helper()
	old := idGenerator
	n := 0
	idGenerator = func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
	t.Cleanup(func() { idGenerator = old })
}

func names(tasks []Task) string {
	parts := make([]string, len(tasks))
	for i, task := range tasks {
		parts[i] = task.Name
	}
	return strings.Join(parts, " ")
}

func TestInitializeAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.db")

	s, err := Initialize(path)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("database file not created")
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.Close()

	if _, err := Open(filepath.Join(dir, "missing.db")); err == nil {
		t.Fatal("Open should fail when the database does not exist")
	}
}

func TestCreateAndGetTask(t *testing.T) {
	s := testStore(t)

	created, err := s.CreateTask("backlog", "write docs", "start with the readme")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == "" {
		t.Error("task ID not set")
	}
	if created.Position != 0 {
		t.Errorf("first task position = %d, want 0", created.Position)
	}

	second, err := s.CreateTask("backlog", "fix flaky test", "")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if second.Position != 1 {
		t.Errorf("second task position = %d, want 1", second.Position)
	}

	got, err := s.Task(created.ID)
	if err != nil {
		t.Fatalf("Task failed: %v", err)
	}
	if got.Name != created.Name {
		t.Errorf("name mismatch: got %s, want %s", got.Name, created.Name)
	}
	if got.Notes != created.Notes {
		t.Errorf("notes mismatch: got %s, want %s", got.Notes, created.Notes)
	}
	if got.List != "backlog" {
		t.Errorf("list mismatch: got %s, want backlog", got.List)
	}

	if _, err := s.Task("absent"); err == nil {
		t.Error("Task should fail for an unknown ID")
	}
}

func TestSetListReorder(t *testing.T) {
	s := testStore(t)
	sequentialIDs(t, "task")

	for _, name := range []string{"a", "b", "c"} {
		if _, err := s.CreateTask("backlog", name, ""); err != nil {
			t.Fatalf("CreateTask %s: %v", name, err)
		}
	}

	if err := s.SetList("backlog", []string{"task-2", "task-1", "task-3"}); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}

	tasks, err := s.Tasks("backlog")
	if err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	if got, want := names(tasks), "b a c"; got != want {
		t.Fatalf("order = %q, want %q", got, want)
	}
}

func TestSetListMovesAcrossLists(t *testing.T) {
	s := testStore(t)
	sequentialIDs(t, "task")

	if _, err := s.CreateTask("backlog", "a", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask("backlog", "b", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask("today", "x", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// Simulate dropping task a into today above x.
	if err := s.SetList("today", []string{"task-1", "task-3"}); err != nil {
		t.Fatalf("SetList today: %v", err)
	}
	if err := s.SetList("backlog", []string{"task-2"}); err != nil {
		t.Fatalf("SetList backlog: %v", err)
	}

	today, err := s.Tasks("today")
	if err != nil {
		t.Fatalf("Tasks today: %v", err)
	}
	if got, want := names(today), "a x"; got != want {
		t.Fatalf("today order = %q, want %q", got, want)
	}

	backlog, err := s.Tasks("backlog")
	if err != nil {
		t.Fatalf("Tasks backlog: %v", err)
	}
	if got, want := names(backlog), "b"; got != want {
		t.Fatalf("backlog order = %q, want %q", got, want)
	}

	moved, err := s.Task("task-1")
	if err != nil {
		t.Fatalf("Task: %v", err)
	}
	if moved.List != "today" {
		t.Fatalf("moved task list = %q, want today", moved.List)
	}
}

func TestLoadBoard(t *testing.T) {
	s := testStore(t)

	if err := s.EnsureList("backlog", "Backlog", 0); err != nil {
		t.Fatalf("EnsureList: %v", err)
	}
	if err := s.EnsureList("today", "Today", 1); err != nil {
		t.Fatalf("EnsureList: %v", err)
	}
	for _, name := range []string{"a", "b"} {
		if _, err := s.CreateTask("backlog", name, ""); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}
	if _, err := s.CreateTask("today", "x", ""); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	board, err := s.LoadBoard("backlog", "today")
	if err != nil {
		t.Fatalf("LoadBoard failed: %v", err)
	}
	if got, want := names(board["backlog"]), "a b"; got != want {
		t.Fatalf("backlog = %q, want %q", got, want)
	}
	if got, want := names(board["today"]), "x"; got != want {
		t.Fatalf("today = %q, want %q", got, want)
	}

	all, err := s.AllTasks()
	if err != nil {
		t.Fatalf("AllTasks failed: %v", err)
	}
	if got, want := names(all), "a b x"; got != want {
		t.Fatalf("all tasks = %q, want %q", got, want)
	}
}

func TestLists(t *testing.T) {
	s := testStore(t)

	if err := s.EnsureList("today", "Today", 1); err != nil {
		t.Fatalf("EnsureList: %v", err)
	}
	if err := s.EnsureList("backlog", "Backlog", 0); err != nil {
		t.Fatalf("EnsureList: %v", err)
	}
	// Upsert keeps a single row per list.
	if err := s.EnsureList("today", "Due Today", 1); err != nil {
		t.Fatalf("EnsureList: %v", err)
	}

	lists, err := s.Lists()
	if err != nil {
		t.Fatalf("Lists failed: %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("got %d lists, want 2", len(lists))
	}
	if lists[0].ID != "backlog" || lists[1].ID != "today" {
		t.Fatalf("list order = [%s %s], want [backlog today]", lists[0].ID, lists[1].ID)
	}
	if lists[1].Title != "Due Today" {
		t.Fatalf("today title = %q, want %q", lists[1].Title, "Due Today")
	}
}
