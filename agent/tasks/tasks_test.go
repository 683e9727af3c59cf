package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

func TestTaskLifecycle(t *testing.T) {
	t.Parallel()

	m := NewManager(filepath.Join(t.TempDir(), "tasks.md"))

	task, err := m.Add("find leads")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Status != StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}

	started, err := m.Start(task.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.Status != StatusInProgress || started.StartedAt == nil {
		t.Fatalf("expected in_progress with start time, got %+v", started)
	}

	done, err := m.Complete(task.ID, "found 5 leads")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if done.Status != StatusCompleted || done.FinishedAt == nil {
		t.Fatalf("expected completed with finish time, got %+v", done)
	}
	if len(done.Notes) != 1 || done.Notes[0] != "found 5 leads" {
		t.Fatalf("expected note recorded, got %v", done.Notes)
	}
}

func TestStartBlockedByDependency(t *testing.T) {
	t.Parallel()

	m := NewManager("")

	a, err := m.Add("generate ICP")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b, err := m.Add("write emails", a.ID)
	if err != nil {
		t.Fatalf("Add with dep: %v", err)
	}

	if _, err := m.Start(b.ID); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error for unmet dependency, got %v", err)
	}

	if _, err := m.Start(a.ID); err != nil {
		t.Fatalf("Start a: %v", err)
	}
	if _, err := m.Complete(a.ID, ""); err != nil {
		t.Fatalf("Complete a: %v", err)
	}
	if _, err := m.Start(b.ID); err != nil {
		t.Fatalf("Start b after dep completed: %v", err)
	}
}

func TestAddRejectsUnknownDependency(t *testing.T) {
	t.Parallel()

	m := NewManager("")
	if _, err := m.Add("orphan", "no-such-id"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunnableOrderAndFiltering(t *testing.T) {
	t.Parallel()

	m := NewManager("")

	a, _ := m.Add("first")
	b, _ := m.Add("second", a.ID)
	c, _ := m.Add("third")

	runnable := m.Runnable()
	if len(runnable) != 2 {
		t.Fatalf("expected 2 runnable tasks, got %d", len(runnable))
	}
	if runnable[0].ID != a.ID || runnable[1].ID != c.ID {
		t.Fatalf("unexpected runnable order: %v, %v", runnable[0].Description, runnable[1].Description)
	}

	if _, err := m.Start(a.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.Complete(a.ID, ""); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	runnable = m.Runnable()
	if len(runnable) != 2 || runnable[0].ID != b.ID {
		t.Fatalf("expected b runnable after a completed, got %d tasks", len(runnable))
	}
}

func TestSkipNeverSatisfiesDependency(t *testing.T) {
	t.Parallel()

	m := NewManager("")

	a, _ := m.Add("scrape website")
	b, _ := m.Add("summarize", a.ID)

	if _, err := m.Skip(a.ID, "no website on record"); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if _, err := m.Start(b.ID); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("skipped dependency must block start, got %v", err)
	}
}

func TestAddNote(t *testing.T) {
	t.Parallel()

	m := NewManager("")
	a, _ := m.Add("write emails")

	updated, err := m.AddNote(a.ID, "waiting on lead research")
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if len(updated.Notes) != 1 || updated.Notes[0] != "waiting on lead research" {
		t.Fatalf("unexpected notes %v", updated.Notes)
	}

	if _, err := m.AddNote(a.ID, "  "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error for blank note, got %v", err)
	}
	if _, err := m.AddNote("missing", "x"); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMarkdownLogWritten(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log", "tasks.md")
	m := NewManager(path)

	a, _ := m.Add("find leads")
	if _, err := m.Start(a.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.Complete(a.ID, "done via apollo"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "- [x] find leads") {
		t.Fatalf("expected completed checkbox in log, got:\n%s", content)
	}
	if !strings.Contains(content, "done via apollo") {
		t.Fatalf("expected note in log, got:\n%s", content)
	}
}
