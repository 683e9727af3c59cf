// Package tasks tracks the units of work an outreach run plans and executes.
// Tasks form a small dependency graph; a task is runnable only once every
// dependency has completed.
package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
)

type Task struct {
	ID           string     `json:"id"`
	Description  string     `json:"description"`
	Dependencies []string   `json:"dependencies,omitempty"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Notes        []string   `json:"notes,omitempty"`
}

// Manager is the in-memory task registry. All methods are safe for
// concurrent use; the markdown log is rewritten on every mutation.
type Manager struct {
	mu      sync.Mutex
	logPath string
	order   []string
	tasks   map[string]*Task
	now     func() time.Time
}

type ManagerOption func(*Manager)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(logPath string, opts ...ManagerOption) *Manager {
	m := &Manager{
		logPath: logPath,
		tasks:   make(map[string]*Task),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Add registers a new pending task. Every dependency must already exist.
func (m *Manager) Add(description string, dependencies ...string) (*Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: task description is empty", contractx.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dep := range dependencies {
		if _, ok := m.tasks[dep]; !ok {
			return nil, fmt.Errorf("%w: unknown dependency %q", contractx.ErrValidation, dep)
		}
	}

	t := &Task{
		ID:           uuid.NewString(),
		Description:  description,
		Dependencies: dependencies,
		Status:       StatusPending,
		CreatedAt:    m.now(),
	}
	m.tasks[t.ID] = t
	m.order = append(m.order, t.ID)

	m.writeLog()
	log.Info().Str("task_id", t.ID).Str("description", description).Msg("tasks: added")
	return cloned(t), nil
}

// Start moves a pending task into in_progress. A task with incomplete
// dependencies cannot start.
func (m *Manager) Start(id string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", contractx.ErrNotFound, id)
	}
	if t.Status != StatusPending {
		return nil, fmt.Errorf("%w: task %q is %s, not pending", contractx.ErrValidation, id, t.Status)
	}
	for _, dep := range t.Dependencies {
		if d := m.tasks[dep]; d == nil || d.Status != StatusCompleted {
			return nil, fmt.Errorf("%w: dependency %q not completed", contractx.ErrValidation, dep)
		}
	}

	now := m.now()
	t.Status = StatusInProgress
	t.StartedAt = &now
	m.writeLog()
	return cloned(t), nil
}

// Complete finishes an in_progress task, optionally recording a note.
func (m *Manager) Complete(id, note string) (*Task, error) {
	return m.finish(id, StatusCompleted, note)
}

// Fail marks an in_progress task failed with the given reason.
func (m *Manager) Fail(id, reason string) (*Task, error) {
	return m.finish(id, StatusFailed, reason)
}

// Skip marks a pending task skipped. Skipped tasks never satisfy a
// dependency.
func (m *Manager) Skip(id, reason string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", contractx.ErrNotFound, id)
	}
	if t.Status != StatusPending {
		return nil, fmt.Errorf("%w: task %q is %s, not pending", contractx.ErrValidation, id, t.Status)
	}

	now := m.now()
	t.Status = StatusSkipped
	t.FinishedAt = &now
	if reason != "" {
		t.Notes = append(t.Notes, reason)
	}
	m.writeLog()
	return cloned(t), nil
}

func (m *Manager) finish(id string, status Status, note string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", contractx.ErrNotFound, id)
	}
	if t.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: task %q is %s, not in_progress", contractx.ErrValidation, id, t.Status)
	}

	now := m.now()
	t.Status = status
	t.FinishedAt = &now
	if note != "" {
		t.Notes = append(t.Notes, note)
	}
	m.writeLog()
	log.Info().Str("task_id", id).Str("status", string(status)).Msg("tasks: finished")
	return cloned(t), nil
}

// AddNote appends a note to any known task.
func (m *Manager) AddNote(id, note string) (*Task, error) {
	if strings.TrimSpace(note) == "" {
		return nil, fmt.Errorf("%w: note is empty", contractx.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", contractx.ErrNotFound, id)
	}
	t.Notes = append(t.Notes, note)
	m.writeLog()
	return cloned(t), nil
}

// Get returns a copy of the task.
func (m *Manager) Get(id string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %q", contractx.ErrNotFound, id)
	}
	return cloned(t), nil
}

// List returns all tasks in creation order, optionally filtered by status.
func (m *Manager) List(status Status) []*Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Task, 0, len(m.order))
	for _, id := range m.order {
		t := m.tasks[id]
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, cloned(t))
	}
	return out
}

// Runnable returns the pending tasks whose dependencies are all completed,
// sorted by creation time.
func (m *Manager) Runnable() []*Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Task
	for _, id := range m.order {
		t := m.tasks[id]
		if t.Status != StatusPending {
			continue
		}
		ready := true
		for _, dep := range t.Dependencies {
			if d := m.tasks[dep]; d == nil || d.Status != StatusCompleted {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, cloned(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// writeLog rewrites the markdown task log. Called with the lock held; a
// write failure is logged, never fatal.
func (m *Manager) writeLog() {
	if m.logPath == "" {
		return
	}

	var b strings.Builder
	b.WriteString("# Task Log\n\n")
	for _, id := range m.order {
		t := m.tasks[id]
		mark := " "
		switch t.Status {
		case StatusCompleted:
			mark = "x"
		case StatusSkipped, StatusFailed:
			mark = "-"
		}
		fmt.Fprintf(&b, "- [%s] %s (%s, %s)\n", mark, t.Description, shortID(t.ID), t.Status)
		for _, note := range t.Notes {
			fmt.Fprintf(&b, "  - %s\n", note)
		}
	}

	if err := os.MkdirAll(filepath.Dir(m.logPath), 0o755); err != nil {
		log.Warn().Err(err).Msg("tasks: create log dir failed")
		return
	}
	if err := os.WriteFile(m.logPath, []byte(b.String()), 0o644); err != nil {
		log.Warn().Err(err).Str("path", m.logPath).Msg("tasks: write log failed")
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func cloned(t *Task) *Task {
	c := *t
	c.Dependencies = append([]string(nil), t.Dependencies...)
	c.Notes = append([]string(nil), t.Notes...)
	return &c
}
