// Package crm records contacted leads. Two backends are provided: a local
// CSV log and a Postgres table, selected by configuration.
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

type Config struct {
	// Provider selects the backend: "csv" or "postgres".
	Provider    string `envconfig:"PROVIDER" split_words:"true" default:"csv"`
	CSVPath     string `envconfig:"CSV_PATH" split_words:"true" default:"data/crm_log.csv"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" split_words:"true"`
}

// Entry is one CRM record: a lead plus the outreach that touched it.
type Entry struct {
	Lead        contractx.Lead
	Status      string
	ContactedAt time.Time
}

// Logger persists CRM entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// New builds the configured Logger.
func New(ctx context.Context, cfg Config) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "csv":
		return NewCSVLogger(cfg.CSVPath)
	case "postgres":
		return NewPostgresLogger(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: unknown crm provider %q", contractx.ErrConfiguration, cfg.Provider)
	}
}
