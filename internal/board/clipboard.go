package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/marcus/dropkit/internal/store"
	"github.com/marcus/dropkit/pkg/collection"
)

// clipboardCmd picks the platform's clipboard writer: pbcopy on macOS,
// xclip or xsel on Linux, clip.exe on Windows.
func clipboardCmd() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pbcopy"), nil
	case "windows":
		return exec.Command("clip.exe"), nil
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input"), nil
		}
		return nil, errors.New("no clipboard tool found (install xclip or xsel)")
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// copyToClipboard pipes text through the clipboard tool's stdin.
func copyToClipboard(text string) error {
	cmd, err := clipboardCmd()
	if err != nil {
		return err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := io.WriteString(stdin, text); err != nil {
		return err
	}
	if err := stdin.Close(); err != nil {
		return err
	}
	return cmd.Wait()
}

// tasksAsMarkdown formats tasks as a checklist for pasting into notes or a
// pull request.
func tasksAsMarkdown(title string, tasks []store.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n", title))
	for _, t := range tasks {
		sb.WriteString(fmt.Sprintf("- [ ] %s", t.Name))
		if line := firstLine(t.Notes); line != "" {
			sb.WriteString(": " + line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// yankSelection copies the focused list's selected tasks, or the task under
// the cursor, to the clipboard as a markdown checklist.
func (m *Model) yankSelection() {
	i := m.focusedList()
	if i < 0 {
		return
	}
	l := m.lists[i]

	keys := l.Selection().SelectedKeys()
	if len(keys) == 0 {
		if k, ok := l.CursorKey(); ok {
			keys = []collection.Key{k}
		}
	}
	tasks := make([]store.Task, 0, len(keys))
	for _, k := range keys {
		if it, ok := l.Collection().Item(k); ok {
			if task, isTask := it.(store.Task); isTask {
				tasks = append(tasks, task)
			}
		}
	}
	if len(tasks) == 0 {
		return
	}

	if err := copyToClipboard(tasksAsMarkdown(l.Title(), tasks)); err != nil {
		slog.Error("copy to clipboard", "err", err)
		m.notes.text = "copy failed: " + err.Error()
		return
	}
	if len(tasks) == 1 {
		m.notes.text = "copied 1 task"
	} else {
		m.notes.text = fmt.Sprintf("copied %d tasks", len(tasks))
	}
}
