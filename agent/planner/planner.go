// Package planner runs the tool-calling conversation loop: it hands the
// model the tool catalog, executes whatever the model calls, feeds results
// back, and stops when the model answers in plain text or the turn budget
// runs out.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	promptx "github.com/leadpilot-ai/leadpilot/agent/prompt"
	toolx "github.com/leadpilot-ai/leadpilot/agent/tool"
)

type Config struct {
	Model       string  `envconfig:"MODEL" split_words:"true" default:"deepseek-chat"`
	Temperature float64 `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	MaxTurns    int     `envconfig:"MAX_TURNS" split_words:"true" default:"25"`
}

type Planner struct {
	cfg    Config
	client *openai.Client
	exec   *toolx.Executor
}

func New(cfg Config, client *openai.Client, exec *toolx.Executor) (*Planner, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: llm client is required", contractx.ErrConfiguration)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrConfiguration)
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 25
	}
	return &Planner{cfg: cfg, client: client, exec: exec}, nil
}

// Run drives the loop for one operator goal and returns the model's final
// text reply.
func (p *Planner) Run(ctx context.Context, goal string) (string, error) {
	if strings.TrimSpace(goal) == "" {
		return "", fmt.Errorf("%w: goal is empty", contractx.ErrValidation)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(promptx.System()),
		openai.UserMessage(goal),
	}
	tools := toolx.Catalog()

	for turn := 0; turn < p.cfg.MaxTurns; turn++ {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       p.cfg.Model,
			Temperature: openai.Float(p.cfg.Temperature),
			Messages:    messages,
			Tools:       tools,
		})
		if err != nil {
			return "", fmt.Errorf("%w: chat completion: %v", contractx.ErrProvider, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: chat completion returned no choices", contractx.ErrProvider)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return strings.TrimSpace(msg.Content), nil
		}

		messages = append(messages, assistantWithToolCalls(msg))
		for _, tc := range msg.ToolCalls {
			payload := p.runToolCall(ctx, tc.Function.Name, tc.Function.Arguments)
			messages = append(messages, openai.ToolMessage(payload, tc.ID))
		}
	}

	return "", fmt.Errorf("%w: turn budget of %d exhausted", contractx.ErrTimeout, p.cfg.MaxTurns)
}

// runToolCall executes one tool call and renders the result as the JSON
// payload fed back to the model. Bad arguments and tool failures become
// payloads too so the model can recover.
func (p *Planner) runToolCall(ctx context.Context, name, arguments string) string {
	log.Info().Str("tool", name).Msg("planner: tool call")

	args := map[string]any{}
	if raw := strings.TrimSpace(arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return renderResult(contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool arguments: %v", err),
			})
		}
	}

	out, err := p.exec.Execute(ctx, contractx.ToolRequest{Tool: name, Args: args})
	if err != nil {
		return renderResult(contractx.ToolResult{Tool: name, Error: err.Error()})
	}
	return renderResult(out)
}

func renderResult(out contractx.ToolResult) string {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"tool":%q,"error":"unencodable result"}`, out.Tool)
	}
	return string(data)
}

func assistantWithToolCalls(msg openai.ChatCompletionMessage) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		calls[i] = openai.ChatCompletionMessageToolCallParam{
			ID:   tc.ID,
			Type: "function",
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		}
	}
	return openai.ChatCompletionMessageParamUnion{
		OfAssistant: &openai.ChatCompletionAssistantMessageParam{
			Role:      "assistant",
			ToolCalls: calls,
		},
	}
}
