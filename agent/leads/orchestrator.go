// Package leads implements the multi-provider acquisition subsystem: an
// ordered fallback chain over heterogeneous lead sources, a durable CSV
// ledger fed by every successful remote fetch, and the orchestrator that
// ties both to the interaction gate and memory store.
package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	interactionx "github.com/leadpilot-ai/leadpilot/agent/interaction"
	memoryx "github.com/leadpilot-ai/leadpilot/agent/memory"
)

// countMemoryKey is where the resolved desired-lead-count lives across runs.
const countMemoryKey = "leads_count"

// Config carries the orchestrator knobs resolved from the environment.
type Config struct {
	// TestMode selects the local source outright, skipping every network
	// tier. Checked before the fallback chain, never as a tier of it.
	TestMode bool `split_words:"true" default:"false"`

	// DefaultCount is used when neither the caller, memory, nor the
	// operator supplies a lead count.
	DefaultCount int `split_words:"true" default:"5"`
}

// Orchestrator sequences lead sources in priority order with
// fallback-on-failure. One orchestration pass is strictly sequential: each
// tier's outcome decides whether the next tier runs.
type Orchestrator struct {
	cfg    Config
	chain  []contractx.LeadSource
	local  contractx.LeadSource
	ledger *Ledger
	gate   *interactionx.Gate
	store  memoryx.Store
}

func NewOrchestrator(
	cfg Config,
	chain []contractx.LeadSource,
	local contractx.LeadSource,
	ledger *Ledger,
	gate *interactionx.Gate,
	store memoryx.Store,
) (*Orchestrator, error) {
	if len(chain) == 0 {
		return nil, errors.New("at least one lead source is required")
	}
	if local == nil {
		return nil, errors.New("local source is required")
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if gate == nil {
		return nil, errors.New("interaction gate is required")
	}
	if store == nil {
		return nil, errors.New("memory store is required")
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = 5
	}

	return &Orchestrator{
		cfg:    cfg,
		chain:  chain,
		local:  local,
		ledger: ledger,
		gate:   gate,
		store:  store,
	}, nil
}

// GetLeads resolves the desired count when the caller left it unset, then
// walks the source chain until one tier yields a non-empty result. Remote
// results are appended to the ledger (best-effort); leads the local source
// served from the ledger are never written back to it. Exhaustion of every
// tier is the only terminal failure.
func (o *Orchestrator) GetLeads(ctx context.Context, q contractx.Query) ([]contractx.Lead, error) {
	if q.Count <= 0 {
		q.Count = o.resolveCount(q)
	}

	if o.cfg.TestMode {
		log.Info().Msg("leads: test mode, using local ledger only")
		rows, err := o.local.Fetch(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrAllSourcesFailed, err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("%w: local source returned no leads", contractx.ErrAllSourcesFailed)
		}
		return rows, nil
	}

	for _, src := range o.chain {
		log.Info().Str("source", src.Name()).Msg("leads: attempting source")
		rows, err := src.Fetch(ctx, q)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("leads: source failed, falling back")
			continue
		}
		if len(rows) == 0 {
			// An empty result is a failure even when the source reports
			// none, so the next tier still gets its turn.
			log.Warn().Str("source", src.Name()).Msg("leads: source returned no leads, falling back")
			continue
		}

		if src != o.local {
			if err := o.ledger.Append(rows); err != nil {
				// Durability is best-effort: the in-memory result is still
				// correct, so the caller gets its leads.
				log.Error().Err(err).Str("source", src.Name()).Msg("leads: ledger append failed")
			}
		}

		log.Info().Str("source", src.Name()).Int("count", len(rows)).Msg("leads: source succeeded")
		return rows, nil
	}

	return nil, contractx.ErrAllSourcesFailed
}

// resolveCount prefers the remembered value, then asks the operator with
// the configured default, and persists whatever was resolved.
func (o *Orchestrator) resolveCount(q contractx.Query) int {
	if rec, err := o.store.Recall(countMemoryKey); err == nil {
		if n, ok := asInt(rec.Value); ok && n > 0 {
			log.Info().Int("count", n).Str("source", string(rec.Source)).Msg("leads: using remembered lead count")
			return n
		}
		log.Warn().Interface("value", rec.Value).Msg("leads: remembered count unusable, re-prompting")
	}

	prompt := fmt.Sprintf("How many %s %s leads from %s would you like to find?", q.Industry, q.Role, q.Location)
	raw := o.gate.GetUserInput(prompt, strconv.Itoa(o.cfg.DefaultCount), nil)

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("raw", raw).Int("default", o.cfg.DefaultCount).Msg("leads: invalid count input, using default")
		n = o.cfg.DefaultCount
	}

	if _, err := o.store.Remember(countMemoryKey, n); err != nil {
		log.Warn().Err(err).Msg("leads: failed to persist lead count")
	}
	return n
}

// asInt normalizes the value shapes a remembered count can come back as:
// int when cached this run, float64 or json.Number after a disk round-trip,
// string when an earlier coercion degraded.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
