package board

import (
	"testing"

	"github.com/marcus/dropkit/internal/store"
)

func TestTasksAsMarkdown(t *testing.T) {
	tasks := []store.Task{
		{Name: "write docs", Notes: "start with the readme\nthen examples"},
		{Name: "fix login"},
	}

	got := tasksAsMarkdown("Backlog", tasks)
	want := "## Backlog\n- [ ] write docs: start with the readme\n- [ ] fix login\n"
	if got != want {
		t.Errorf("tasksAsMarkdown() = %q, want %q", got, want)
	}
}

func TestTasksAsMarkdownEmpty(t *testing.T) {
	got := tasksAsMarkdown("Today", nil)
	want := "## Today\n"
	if got != want {
		t.Errorf("tasksAsMarkdown() = %q, want %q", got, want)
	}
}
