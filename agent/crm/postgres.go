package crm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

type crmLead struct {
	bun.BaseModel `bun:"table:crm_leads"`

	Email       string    `bun:"email,pk"`
	Name        string    `bun:"name,notnull"`
	Title       string    `bun:"title"`
	Company     string    `bun:"company"`
	LinkedIn    string    `bun:"linkedin"`
	Industry    string    `bun:"industry"`
	Location    string    `bun:"location"`
	Website     string    `bun:"website"`
	Status      string    `bun:"status"`
	ContactedAt time.Time `bun:"contacted_at,notnull"`
}

// PostgresLogger upserts CRM entries into the crm_leads table, keyed by
// email so re-contacting a lead updates the existing row.
type PostgresLogger struct {
	db *bun.DB
}

func NewPostgresLogger(ctx context.Context, dsn string) (*PostgresLogger, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: postgres DSN is empty", contractx.ErrConfiguration)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	l := &PostgresLogger{db: db}
	if err := l.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *PostgresLogger) migrate(ctx context.Context) error {
	_, err := l.db.NewCreateTable().
		Model((*crmLead)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: create crm_leads table: %v", contractx.ErrIO, err)
	}
	return nil
}

func (l *PostgresLogger) Log(ctx context.Context, entry Entry) error {
	if !entry.Lead.Valid() {
		return fmt.Errorf("%w: crm entry has incomplete lead", contractx.ErrValidation)
	}
	if entry.ContactedAt.IsZero() {
		entry.ContactedAt = time.Now().UTC()
	}

	lead := entry.Lead
	row := &crmLead{
		Email:       lead.Email,
		Name:        lead.Name,
		Title:       lead.Title,
		Company:     lead.Company,
		LinkedIn:    lead.LinkedIn,
		Industry:    lead.Industry,
		Location:    lead.Location,
		Website:     lead.Website,
		Status:      entry.Status,
		ContactedAt: entry.ContactedAt.UTC(),
	}

	_, err := l.db.NewInsert().
		Model(row).
		On("CONFLICT (email) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("contacted_at = EXCLUDED.contacted_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: upsert crm lead: %v", contractx.ErrIO, err)
	}

	log.Info().Str("email", lead.Email).Str("status", entry.Status).Msg("crm: entry upserted")
	return nil
}

func (l *PostgresLogger) Close() error {
	return l.db.Close()
}
