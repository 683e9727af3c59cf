package interaction

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	memoryx "github.com/leadpilot-ai/leadpilot/agent/memory"
)

func newTestGate(t *testing.T, input string) (*Gate, memoryx.Store, *bytes.Buffer) {
	t.Helper()
	store, err := memoryx.NewFileStore(filepath.Join(t.TempDir(), "memory.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	out := &bytes.Buffer{}
	gate := NewGate(store, WithInput(strings.NewReader(input)), WithOutput(out))
	return gate, store, out
}

func TestGetUserInputUsesDefaultOnEmpty(t *testing.T) {
	t.Parallel()

	gate, _, _ := newTestGate(t, "\n")
	got := gate.GetUserInput("How many leads", "5", nil)
	if got != "5" {
		t.Fatalf("GetUserInput() = %q, want %q", got, "5")
	}
}

func TestGetUserInputRepromptsOnInvalidOption(t *testing.T) {
	t.Parallel()

	gate, _, out := newTestGate(t, "maybe\nauto\n")
	got := gate.GetUserInput("Select mode", "", []string{"auto", "interactive"})
	if got != "auto" {
		t.Fatalf("GetUserInput() = %q, want %q", got, "auto")
	}
	if !strings.Contains(out.String(), "Invalid input") {
		t.Fatalf("expected re-prompt message, got %q", out.String())
	}
}

func TestEnsureRequiredInputsPromptsOnceAndPersists(t *testing.T) {
	t.Parallel()

	specs := map[string]InputSpec{
		"leads_count": {Prompt: "How many leads", Default: "5", Type: "int"},
	}

	gate, store, out := newTestGate(t, "8\n")
	first := gate.EnsureRequiredInputs(specs)
	if first["leads_count"] != 8 {
		t.Fatalf("first resolution = %v, want 8", first["leads_count"])
	}

	// Same process, same store: the second call must not prompt and must
	// return the identical value.
	out.Reset()
	again := NewGate(store, WithInput(strings.NewReader("")), WithOutput(out))
	second := again.EnsureRequiredInputs(specs)
	if second["leads_count"] != 8 {
		t.Fatalf("second resolution = %v, want 8", second["leads_count"])
	}
	if out.Len() != 0 {
		t.Fatalf("second resolution prompted: %q", out.String())
	}
}

func TestEnsureRequiredInputsCoercionDegradesToString(t *testing.T) {
	t.Parallel()

	gate, _, _ := newTestGate(t, "lots\n")
	resolved := gate.EnsureRequiredInputs(map[string]InputSpec{
		"leads_count": {Prompt: "How many leads", Type: "int"},
	})
	if resolved["leads_count"] != "lots" {
		t.Fatalf("resolution = %v, want raw string %q", resolved["leads_count"], "lots")
	}
}

func TestEnsureRequiredInputsFallsBackToDefault(t *testing.T) {
	t.Parallel()

	gate, store, _ := newTestGate(t, "\n")
	resolved := gate.EnsureRequiredInputs(map[string]InputSpec{
		"industry": {Prompt: "Target industry", Default: "AI SaaS"},
	})
	if resolved["industry"] != "AI SaaS" {
		t.Fatalf("resolution = %v, want %q", resolved["industry"], "AI SaaS")
	}

	// The default must be persisted as if the operator had typed it.
	rec, err := store.Recall("industry")
	if err != nil {
		t.Fatalf("Recall() error = %v", err)
	}
	if rec.Value != "AI SaaS" {
		t.Fatalf("persisted value = %v, want %q", rec.Value, "AI SaaS")
	}
}

func TestConfirmActionBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{name: "empty input true default", input: "\n", def: true, want: true},
		{name: "empty input false default", input: "\n", def: false, want: false},
		{name: "explicit no", input: "n\n", def: true, want: false},
		{name: "explicit yes", input: "yes\n", def: false, want: true},
		{name: "numeric yes", input: "1\n", def: false, want: true},
		{name: "uppercase yes", input: "Y\n", def: false, want: true},
		{name: "garbage is no", input: "whatever\n", def: true, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gate, _, _ := newTestGate(t, tc.input)
			if got := gate.ConfirmAction("send this email", tc.def); got != tc.want {
				t.Fatalf("ConfirmAction() = %v, want %v", got, tc.want)
			}
		})
	}
}
