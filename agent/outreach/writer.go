// Package outreach writes and delivers cold emails. Writing is
// template-first with optional LLM polish; delivery goes through a Sender,
// with a local outbox implementation for dry runs.
package outreach

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	promptx "github.com/leadpilot-ai/leadpilot/agent/prompt"
)

type Config struct {
	SenderName    string `envconfig:"SENDER_NAME" split_words:"true" default:"Alex Rivera"`
	SenderCompany string `envconfig:"SENDER_COMPANY" split_words:"true" default:"LeadPilot"`
	Pitch         string `envconfig:"PITCH" split_words:"true" default:"LeadPilot automates prospecting end to end so your team only talks to warm, qualified leads."`
	PolishModel   string `envconfig:"POLISH_MODEL" split_words:"true" default:"deepseek-chat"`
}

// Email is a fully rendered outbound message.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Writer renders cold emails from the embedded template. When an LLM client
// is present the draft is polished; without one the template output ships
// as-is.
type Writer struct {
	cfg Config
	llm *openaisdk.Client
}

// NewWriter accepts a nil llm client, which disables polishing.
func NewWriter(cfg Config, llm *openaisdk.Client) *Writer {
	return &Writer{cfg: cfg, llm: llm}
}

// Write renders the email for lead, folding in research text when given.
func (w *Writer) Write(ctx context.Context, lead contractx.Lead, research string) (Email, error) {
	if !lead.Valid() {
		return Email{}, fmt.Errorf("%w: lead is missing required fields", contractx.ErrValidation)
	}

	data := map[string]string{
		"FirstName":     firstName(lead.Name),
		"Company":       lead.Company,
		"Industry":      industryOrDefault(lead.Industry),
		"Research":      strings.TrimSpace(research),
		"Pitch":         w.cfg.Pitch,
		"SenderName":    w.cfg.SenderName,
		"SenderCompany": w.cfg.SenderCompany,
	}

	var b strings.Builder
	if err := promptx.ColdEmail().Execute(&b, data); err != nil {
		return Email{}, fmt.Errorf("render cold email: %w", err)
	}
	subject, body := splitSubject(b.String())

	if w.llm != nil {
		polished, err := w.polish(ctx, body, lead)
		if err != nil {
			log.Warn().Err(err).Str("email", lead.Email).Msg("outreach: polish failed, using template draft")
		} else {
			body = polished
		}
	}

	return Email{To: lead.Email, Subject: subject, Body: body}, nil
}

// polish asks the LLM to tighten the draft without changing its intent.
func (w *Writer) polish(ctx context.Context, draft string, lead contractx.Lead) (string, error) {
	resp, err := w.llm.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: w.cfg.PolishModel,
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage("You polish cold outreach emails. Keep them under 120 words, specific and warm. Return only the email body, no subject line."),
			openaisdk.UserMessage(fmt.Sprintf("Recipient: %s, %s at %s.\n\nDraft:\n%s", lead.Name, lead.Title, lead.Company, draft)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: polish email: %v", contractx.ErrProvider, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: polish returned no choices", contractx.ErrProvider)
	}
	polished := strings.TrimSpace(resp.Choices[0].Message.Content)
	if polished == "" {
		return "", fmt.Errorf("%w: polish returned empty content", contractx.ErrProvider)
	}
	return polished, nil
}

// splitSubject separates the "Subject: ..." first line from the body.
func splitSubject(rendered string) (subject, body string) {
	rendered = strings.TrimSpace(rendered)
	lines := strings.SplitN(rendered, "\n", 2)
	if strings.HasPrefix(lines[0], "Subject:") {
		subject = strings.TrimSpace(strings.TrimPrefix(lines[0], "Subject:"))
		if len(lines) > 1 {
			body = strings.TrimSpace(lines[1])
		}
		return subject, body
	}
	return "Quick question", rendered
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

func industryOrDefault(industry string) string {
	if strings.TrimSpace(industry) == "" {
		return "your space"
	}
	return industry
}
