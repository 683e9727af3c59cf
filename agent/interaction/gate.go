// Package interaction resolves required parameters against the operator.
// A parameter is asked for exactly once: answers are persisted through the
// memory store and short-circuit every later run.
package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	memoryx "github.com/leadpilot-ai/leadpilot/agent/memory"
)

// InputSpec describes one required input for EnsureRequiredInputs.
type InputSpec struct {
	Prompt  string   `json:"prompt"`
	Default string   `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
	// Type selects coercion of the raw answer: "int", "float", "bool" or
	// anything else for pass-through string.
	Type string `json:"type,omitempty"`
}

// Gate is the console-facing prompt resolver.
type Gate struct {
	in    *bufio.Reader
	out   io.Writer
	store memoryx.Store
}

// GateOption customizes a Gate; tests inject scripted input and capture
// output through these.
type GateOption func(*Gate)

func WithInput(r io.Reader) GateOption {
	return func(g *Gate) {
		if r != nil {
			g.in = bufio.NewReader(r)
		}
	}
}

func WithOutput(w io.Writer) GateOption {
	return func(g *Gate) {
		if w != nil {
			g.out = w
		}
	}
}

func NewGate(store memoryx.Store, opts ...GateOption) *Gate {
	g := &Gate{
		in:    bufio.NewReader(os.Stdin),
		out:   os.Stdout,
		store: store,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// GetUserInput blocks on one line of operator input. Empty input yields the
// default; when options are given the loop re-prompts until the trimmed
// input is one of them.
func (g *Gate) GetUserInput(prompt, def string, options []string) string {
	display := prompt
	if len(options) > 0 {
		display = fmt.Sprintf("%s (%s)", display, strings.Join(options, "/"))
	}
	if def != "" {
		display = fmt.Sprintf("%s [default: %s]", display, def)
	}
	display += ": "

	for {
		fmt.Fprint(g.out, display)
		line, err := g.in.ReadString('\n')
		input := strings.TrimSpace(line)

		if input == "" && def != "" {
			log.Debug().Str("value", def).Msg("interaction: using default value")
			return def
		}
		if len(options) > 0 && !containsOption(options, input) {
			fmt.Fprintf(g.out, "Invalid input. Please choose one of: %s\n", strings.Join(options, ", "))
			if err != nil {
				// Input exhausted; re-prompting cannot make progress.
				return def
			}
			continue
		}
		return input
	}
}

// EnsureRequiredInputs resolves every named input: remembered values win and
// skip prompting entirely, otherwise the operator is asked and the coerced
// answer is persisted. Inputs are prompted in name order so runs are
// reproducible. The returned mapping always has an entry per name.
func (g *Gate) EnsureRequiredInputs(specs map[string]InputSpec) map[string]any {
	resolved := make(map[string]any, len(specs))

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := specs[name]

		if rec, err := g.store.Recall(name); err == nil {
			resolved[name] = rec.Value
			log.Info().Str("input", name).Str("source", string(rec.Source)).Msg("interaction: using remembered value")
			continue
		}

		prompt := spec.Prompt
		if prompt == "" {
			prompt = fmt.Sprintf("Please enter %s", name)
		}
		raw := g.GetUserInput(prompt, spec.Default, spec.Options)
		value := coerce(name, raw, spec.Type)

		resolved[name] = value
		if _, err := g.store.Remember(name, value); err != nil {
			log.Warn().Err(err).Str("input", name).Msg("interaction: failed to persist answer")
		}
	}

	return resolved
}

// ConfirmAction asks a yes/no question. Empty input yields the default;
// y/yes/true/1 (case-insensitive) count as yes, everything else as no.
func (g *Gate) ConfirmAction(description string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	response := g.GetUserInput(fmt.Sprintf("Do you want to %s? %s", description, hint), "", nil)
	if response == "" {
		return def
	}
	return isAffirmative(response)
}

func isAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

// coerce converts the raw answer per the requested type. A conversion
// failure degrades to the raw string with a warning; it never propagates.
func coerce(name, raw, typ string) any {
	switch typ {
	case "int":
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Str("input", name).Str("raw", raw).Msg("interaction: not an int, keeping string")
			return raw
		}
		return v
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn().Str("input", name).Str("raw", raw).Msg("interaction: not a float, keeping string")
			return raw
		}
		return v
	case "bool":
		return isAffirmative(raw)
	default:
		return raw
	}
}

func containsOption(options []string, input string) bool {
	for _, o := range options {
		if o == input {
			return true
		}
	}
	return false
}
