package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marcus/dropkit/pkg/collection"
)

// ListInfo is one board list.
type ListInfo struct {
	ID       string
	Title    string
	Position int
}

// Task is one row on the board. It satisfies the collection item and list
// widget title contracts so the UI can hold tasks directly.
type Task struct {
	ID        string
	List      string
	Name      string
	Notes     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key implements collection.Item.
func (t Task) Key() collection.Key { return collection.Key(t.ID) }

// Title labels the task in list widgets.
func (t Task) Title() string { return t.Name }

// EnsureList inserts or updates a board list.
func (s *Store) EnsureList(id, title string, position int) error {
	return s.withWriteLock(func() error {
		_, err := s.conn.Exec(`
			INSERT INTO lists (id, title, position) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title, position = excluded.position
		`, id, title, position)
		if err != nil {
			return fmt.Errorf("ensure list %s: %w", id, err)
		}
		return nil
	})
}

// Lists returns the board lists in position order.
func (s *Store) Lists() ([]ListInfo, error) {
	rows, err := s.conn.Query(`SELECT id, title, position FROM lists ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var lists []ListInfo
	for rows.Next() {
		var l ListInfo
		if err := rows.Scan(&l.ID, &l.Title, &l.Position); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CreateTask appends a task to the end of a list.
func (s *Store) CreateTask(list, name, notes string) (Task, error) {
	var task Task
	err := s.withWriteLock(func() error {
		var next int
		err := s.conn.QueryRow(`SELECT COALESCE(MAX(position)+1, 0) FROM tasks WHERE list = ?`, list).Scan(&next)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		now := time.Now().UTC()
		task = Task{
			ID:        idGenerator(),
			List:      list,
			Name:      name,
			Notes:     notes,
			Position:  next,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = s.conn.Exec(`
			INSERT INTO tasks (id, list, name, notes, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, task.ID, task.List, task.Name, task.Notes, task.Position, task.CreatedAt, task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	return task, err
}

// Task returns one task by ID.
func (s *Store) Task(id string) (Task, error) {
	var t Task
	err := s.conn.QueryRow(`
		SELECT id, list, name, notes, position, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.List, &t.Name, &t.Notes, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("task %s not found", id)
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Tasks returns a list's tasks in position order.
func (s *Store) Tasks(list string) ([]Task, error) {
	return s.queryTasks(`
		SELECT id, list, name, notes, position, created_at, updated_at
		FROM tasks WHERE list = ? ORDER BY position, created_at
	`, list)
}

// AllTasks returns every task grouped by list order then position.
func (s *Store) AllTasks() ([]Task, error) {
	return s.queryTasks(`
		SELECT t.id, t.list, t.name, t.notes, t.position, t.created_at, t.updated_at
		FROM tasks t LEFT JOIN lists l ON l.id = t.list
		ORDER BY COALESCE(l.position, 0), t.list, t.position
	`)
}

func (s *Store) queryTasks(query string, args ...any) ([]Task, error) {
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.List, &t.Name, &t.Notes, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetList atomically rewrites a list's membership and ordering. A task that
// moved in from another list is claimed by the update.
func (s *Store) SetList(list string, ids []string) error {
	return s.withWriteLock(func() error {
		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		now := time.Now().UTC()
		for i, id := range ids {
			if _, err := tx.Exec(`
				UPDATE tasks SET list = ?, position = ?, updated_at = ? WHERE id = ?
			`, list, i, now, id); err != nil {
				return fmt.Errorf("reposition task %s: %w", id, err)
			}
		}
		return tx.Commit()
	})
}

// LoadBoard reads several lists' tasks in parallel.
func (s *Store) LoadBoard(lists ...string) (map[string][]Task, error) {
	var mu sync.Mutex
	out := make(map[string][]Task, len(lists))

	var g errgroup.Group
	for _, list := range lists {
		g.Go(func() error {
			tasks, err := s.Tasks(list)
			if err != nil {
				return fmt.Errorf("load %s: %w", list, err)
			}
			mu.Lock()
			out[list] = tasks
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
