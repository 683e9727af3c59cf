package contract

import "context"

// LeadSource is one concrete lead-data source behind the uniform fetch
// contract. A nil error implies at least one valid lead; implementations
// translate empty result sets into ErrProvider so the orchestrator can
// fall through to the next tier.
type LeadSource interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Lead, error)
}
