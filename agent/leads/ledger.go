package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

var ledgerColumns = []string{"name", "title", "company", "email", "linkedin", "industry", "location", "website"}

// Ledger is the durable CSV dataset of every lead ever acquired. It doubles
// as the local fallback source: successful remote fetches are appended here,
// progressively enriching future fallbacks.
type Ledger struct {
	mu   sync.Mutex
	path string
}

func NewLedger(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: ledger path is empty", contractx.ErrValidation)
	}
	return &Ledger{path: path}, nil
}

// Append adds leads to the ledger, creating the file with a header row when
// missing. Invalid leads are skipped with a warning.
func (l *Ledger) Append(rows []contractx.Lead) error {
	if len(rows) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("%w: create ledger dir: %v", contractx.ErrIO, err)
	}

	_, statErr := os.Stat(l.path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open ledger: %v", contractx.ErrIO, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(ledgerColumns); err != nil {
			return fmt.Errorf("%w: write ledger header: %v", contractx.ErrIO, err)
		}
	}

	appended := 0
	for _, lead := range rows {
		if !lead.Valid() {
			log.Warn().Str("email", lead.Email).Msg("leads: skipping incomplete lead")
			continue
		}
		record := []string{
			lead.Name, lead.Title, lead.Company, lead.Email,
			lead.LinkedIn, lead.Industry, lead.Location, lead.Website,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("%w: write ledger row: %v", contractx.ErrIO, err)
		}
		appended++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush ledger: %v", contractx.ErrIO, err)
	}

	log.Info().Int("count", appended).Str("path", l.path).Msg("leads: appended to ledger")
	return nil
}

// Filter returns up to q.Count leads whose industry, title and location each
// contain the corresponding filter as a case-insensitive substring. Blank
// filters match everything. A missing ledger file is bootstrapped with the
// seed corpus first.
func (l *Ledger) Filter(q contractx.Query) ([]contractx.Lead, error) {
	if err := l.Bootstrap(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open ledger: %v", contractx.ErrIO, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger header: %v", contractx.ErrIO, err)
	}
	idx := columnIndex(header)

	var matched []contractx.Lead
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read ledger row: %v", contractx.ErrIO, err)
		}

		lead := leadFromRecord(record, idx)
		if !lead.Valid() {
			continue
		}
		if !matchesFilter(lead.Industry, q.Industry) ||
			!matchesFilter(lead.Title, q.Role) ||
			!matchesFilter(lead.Location, q.Location) {
			continue
		}

		matched = append(matched, lead)
		if q.Count > 0 && len(matched) >= q.Count {
			break
		}
	}

	return matched, nil
}

// Bootstrap writes the seed corpus when no ledger file exists yet, via
// temp-file-then-rename so a crash cannot leave a half-written ledger.
func (l *Ledger) Bootstrap() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: stat ledger: %v", contractx.ErrIO, err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create ledger dir: %v", contractx.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, ".leads-*.csv")
	if err != nil {
		return fmt.Errorf("%w: create temp ledger: %v", contractx.ErrIO, err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(ledgerColumns); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write seed header: %v", contractx.ErrIO, err)
	}
	for _, lead := range seedLeads {
		record := []string{
			lead.Name, lead.Title, lead.Company, lead.Email,
			lead.LinkedIn, lead.Industry, lead.Location, lead.Website,
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("%w: write seed row: %v", contractx.ErrIO, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: flush seed ledger: %v", contractx.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp ledger: %v", contractx.ErrIO, err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: rename temp ledger: %v", contractx.ErrIO, err)
	}

	log.Info().Str("path", l.path).Int("seed", len(seedLeads)).Msg("leads: ledger bootstrapped")
	return nil
}

func matchesFilter(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

// columnIndex maps the canonical columns to their positions in the header
// row, tolerating reordered or extra columns.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return idx
}

func leadFromRecord(record []string, idx map[string]int) contractx.Lead {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return contractx.Lead{
		Name:     field("name"),
		Title:    field("title"),
		Company:  field("company"),
		Email:    field("email"),
		LinkedIn: field("linkedin"),
		Industry: field("industry"),
		Location: field("location"),
		Website:  field("website"),
	}
}
