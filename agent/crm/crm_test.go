package crm

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

var testLead = contractx.Lead{
	Name:    "Alice Smith",
	Title:   "CTO",
	Company: "GrowthAI",
	Email:   "alice@growthai.com",
}

func TestCSVLoggerWritesHeaderAndRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crm.csv")
	l, err := NewCSVLogger(path)
	if err != nil {
		t.Fatalf("NewCSVLogger: %v", err)
	}

	contacted := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := l.Log(context.Background(), Entry{Lead: testLead, Status: "emailed", ContactedAt: contacted}); err != nil {
		t.Fatalf("Log: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "contacted_at" || rows[0][5] != "email" {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[1][0] != "2026-03-14T09:00:00Z" || rows[1][1] != "emailed" || rows[1][5] != "alice@growthai.com" {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

func TestCSVLoggerAppendsWithoutDuplicateHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "crm.csv")
	l, err := NewCSVLogger(path)
	if err != nil {
		t.Fatalf("NewCSVLogger: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := l.Log(context.Background(), Entry{Lead: testLead, Status: "emailed"}); err != nil {
			t.Fatalf("Log %d: %v", i, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
}

func TestCSVLoggerRejectsIncompleteLead(t *testing.T) {
	t.Parallel()

	l, err := NewCSVLogger(filepath.Join(t.TempDir(), "crm.csv"))
	if err != nil {
		t.Fatalf("NewCSVLogger: %v", err)
	}
	err = l.Log(context.Background(), Entry{Lead: contractx.Lead{Name: "No Email"}})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	l, err := New(context.Background(), Config{Provider: "csv", CSVPath: filepath.Join(t.TempDir(), "crm.csv")})
	if err != nil {
		t.Fatalf("New csv: %v", err)
	}
	if _, ok := l.(*CSVLogger); !ok {
		t.Fatalf("expected CSVLogger, got %T", l)
	}

	if _, err := New(context.Background(), Config{Provider: "hubspot"}); !errors.Is(err, contractx.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown provider, got %v", err)
	}

	if _, err := New(context.Background(), Config{Provider: "postgres"}); !errors.Is(err, contractx.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing DSN, got %v", err)
	}
}
