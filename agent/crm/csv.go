package crm

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

var csvColumns = []string{"contacted_at", "status", "name", "title", "company", "email", "linkedin", "industry", "location", "website"}

// CSVLogger appends CRM entries to a local CSV file.
type CSVLogger struct {
	mu   sync.Mutex
	path string
}

func NewCSVLogger(path string) (*CSVLogger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: crm csv path is empty", contractx.ErrValidation)
	}
	return &CSVLogger{path: path}, nil
}

func (l *CSVLogger) Log(_ context.Context, entry Entry) error {
	if !entry.Lead.Valid() {
		return fmt.Errorf("%w: crm entry has incomplete lead", contractx.ErrValidation)
	}
	if entry.ContactedAt.IsZero() {
		entry.ContactedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%w: create crm dir: %v", contractx.ErrIO, err)
	}

	_, statErr := os.Stat(l.path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open crm log: %v", contractx.ErrIO, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(csvColumns); err != nil {
			return fmt.Errorf("%w: write crm header: %v", contractx.ErrIO, err)
		}
	}

	lead := entry.Lead
	record := []string{
		entry.ContactedAt.UTC().Format(time.RFC3339),
		entry.Status,
		lead.Name, lead.Title, lead.Company, lead.Email,
		lead.LinkedIn, lead.Industry, lead.Location, lead.Website,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("%w: write crm row: %v", contractx.ErrIO, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush crm log: %v", contractx.ErrIO, err)
	}

	log.Info().Str("email", lead.Email).Str("status", entry.Status).Msg("crm: entry logged")
	return nil
}
