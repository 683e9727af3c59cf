// Package icp derives an ideal customer profile from a free-text business
// description. Extraction is keyword-driven; fields the text does not pin
// down are resolved through the interaction gate and remembered for later
// runs.
package icp

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	interactionx "github.com/leadpilot-ai/leadpilot/agent/interaction"
)

// Profile is the targeting shape the rest of the pipeline consumes.
type Profile struct {
	Industry    string   `json:"industry"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	CompanySize string   `json:"company_size,omitempty"`
	PainPoints  []string `json:"pain_points,omitempty"`
}

// industryKeywords maps description fragments to a canonical industry.
// First match wins, checked in declaration order.
var industryKeywords = []struct {
	needle   string
	industry string
}{
	{"ai saas", "AI SaaS"},
	{"artificial intelligence", "AI SaaS"},
	{"machine learning", "AI SaaS"},
	{"fintech", "Fintech"},
	{"financial", "Fintech"},
	{"health", "Healthtech"},
	{"medical", "Healthtech"},
	{"e-commerce", "E-commerce"},
	{"ecommerce", "E-commerce"},
	{"retail", "E-commerce"},
	{"cyber", "Cybersecurity"},
	{"security", "Cybersecurity"},
	{"devops", "Developer Tools"},
	{"developer", "Developer Tools"},
	{"logistics", "Logistics"},
	{"saas", "SaaS"},
	{"software", "SaaS"},
}

var roleKeywords = []struct {
	needle string
	role   string
}{
	{"cto", "CTO"},
	{"chief technology", "CTO"},
	{"ceo", "CEO"},
	{"founder", "Founder"},
	{"vp of sales", "VP of Sales"},
	{"sales leader", "VP of Sales"},
	{"head of marketing", "Head of Marketing"},
	{"marketing", "Head of Marketing"},
	{"engineering", "VP of Engineering"},
	{"product", "Head of Product"},
}

var painKeywords = []struct {
	needle string
	pain   string
}{
	{"pipeline", "inconsistent sales pipeline"},
	{"outreach", "manual outreach does not scale"},
	{"churn", "customer churn"},
	{"cost", "rising acquisition costs"},
	{"scal", "scaling go-to-market"},
	{"hiring", "slow hiring"},
	{"data", "fragmented customer data"},
}

// Generator builds profiles, asking the operator for whatever the
// description leaves open.
type Generator struct {
	gate *interactionx.Gate
}

func NewGenerator(gate *interactionx.Gate) *Generator {
	return &Generator{gate: gate}
}

// Generate extracts what it can from the description, then fills the gaps
// through the gate. Answers persist via the gate's memory store so a second
// run with the same gaps asks nothing.
func (g *Generator) Generate(description string) (Profile, error) {
	p := extract(description)

	missing := map[string]interactionx.InputSpec{}
	if p.Industry == "" {
		missing["icp_industry"] = interactionx.InputSpec{
			Prompt:  "What industry should we target?",
			Default: "AI SaaS",
		}
	}
	if p.Role == "" {
		missing["icp_role"] = interactionx.InputSpec{
			Prompt:  "What job title should we reach out to?",
			Default: "CTO",
		}
	}
	if p.Location == "" {
		missing["icp_location"] = interactionx.InputSpec{
			Prompt:  "What location should we target?",
			Default: "San Francisco",
		}
	}

	if len(missing) > 0 {
		resolved := g.gate.EnsureRequiredInputs(missing)
		if p.Industry == "" {
			p.Industry = asString(resolved["icp_industry"])
		}
		if p.Role == "" {
			p.Role = asString(resolved["icp_role"])
		}
		if p.Location == "" {
			p.Location = asString(resolved["icp_location"])
		}
	}

	log.Info().
		Str("industry", p.Industry).
		Str("role", p.Role).
		Str("location", p.Location).
		Msg("icp: profile generated")
	return p, nil
}

// extract runs the keyword heuristics over the lowercased description.
func extract(description string) Profile {
	text := strings.ToLower(description)
	var p Profile

	for _, kw := range industryKeywords {
		if strings.Contains(text, kw.needle) {
			p.Industry = kw.industry
			break
		}
	}
	for _, kw := range roleKeywords {
		if strings.Contains(text, kw.needle) {
			p.Role = kw.role
			break
		}
	}
	for _, kw := range painKeywords {
		if strings.Contains(text, kw.needle) {
			p.PainPoints = append(p.PainPoints, kw.pain)
		}
	}

	switch {
	case strings.Contains(text, "enterprise"):
		p.CompanySize = "1000+"
	case strings.Contains(text, "mid-market"), strings.Contains(text, "midmarket"):
		p.CompanySize = "200-1000"
	case strings.Contains(text, "startup"), strings.Contains(text, "small"):
		p.CompanySize = "1-200"
	}

	return p
}

// Summary renders the profile for prompts and logs.
func (p Profile) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s companies in %s", p.Role, p.Industry, p.Location)
	if p.CompanySize != "" {
		fmt.Fprintf(&b, " (%s employees)", p.CompanySize)
	}
	if len(p.PainPoints) > 0 {
		fmt.Fprintf(&b, "; pain points: %s", strings.Join(p.PainPoints, ", "))
	}
	return b.String()
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
