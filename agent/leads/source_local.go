package leads

import (
	"context"
	"fmt"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
)

// LocalSource is the last-resort adapter: it serves previously-seen and
// seed leads from the on-disk ledger, no network involved.
type LocalSource struct {
	ledger *Ledger
}

var _ contractx.LeadSource = (*LocalSource)(nil)

func NewLocalSource(ledger *Ledger) *LocalSource {
	return &LocalSource{ledger: ledger}
}

func (s *LocalSource) Name() string { return "local" }

func (s *LocalSource) Fetch(ctx context.Context, q contractx.Query) ([]contractx.Lead, error) {
	matched, err := s.ledger.Filter(q)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: no matching leads in local ledger", contractx.ErrProvider)
	}
	return matched, nil
}
