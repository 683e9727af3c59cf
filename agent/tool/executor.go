package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	crmx "github.com/leadpilot-ai/leadpilot/agent/crm"
	icpx "github.com/leadpilot-ai/leadpilot/agent/icp"
	interactionx "github.com/leadpilot-ai/leadpilot/agent/interaction"
	leadsx "github.com/leadpilot-ai/leadpilot/agent/leads"
	memoryx "github.com/leadpilot-ai/leadpilot/agent/memory"
	outreachx "github.com/leadpilot-ai/leadpilot/agent/outreach"
	scrapex "github.com/leadpilot-ai/leadpilot/agent/scrape"
	tasksx "github.com/leadpilot-ai/leadpilot/agent/tasks"
)

// Deps wires the executor to every subsystem a tool call can touch.
type Deps struct {
	Leads   *leadsx.Orchestrator
	ICP     *icpx.Generator
	Scraper *scrapex.Scraper
	Writer  *outreachx.Writer
	Sender  outreachx.Sender
	CRM     crmx.Logger
	Tasks   *tasksx.Manager
	Gate    *interactionx.Gate
	Store   memoryx.Store
}

// Executor dispatches tool calls. It also tracks the leads and drafts the
// current run has produced so later calls can refer to them by email
// address. Tool failures are reported in the result's Error field so the
// model can react conversationally; only a broken dispatch returns a Go
// error.
type Executor struct {
	deps Deps

	mu     sync.Mutex
	leads  map[string]contractx.Lead
	drafts map[string]outreachx.Email
}

func NewExecutor(deps Deps) *Executor {
	return &Executor{
		deps:   deps,
		leads:  make(map[string]contractx.Lead),
		drafts: make(map[string]outreachx.Email),
	}
}

func (e *Executor) Execute(ctx context.Context, req contractx.ToolRequest) (contractx.ToolResult, error) {
	log.Debug().Str("tool", req.Tool).Msg("tool: executing")

	args := req.Args
	if args == nil {
		args = map[string]any{}
	}

	switch req.Tool {
	case ToolGenerateICP:
		return e.generateICP(args)
	case ToolGetLeads:
		return e.getLeads(ctx, args)
	case ToolScrapeWebsite:
		return e.scrapeWebsite(ctx, args)
	case ToolWriteEmail:
		return e.writeEmail(ctx, args)
	case ToolSendEmail:
		return e.sendEmail(ctx, args)
	case ToolLogToCRM:
		return e.logToCRM(ctx, args)
	case ToolAddTask:
		return e.addTask(args)
	case ToolStartTask:
		return e.startTask(args)
	case ToolCompleteTask:
		return e.completeTask(args)
	case ToolListTasks:
		return e.listTasks()
	case ToolGetUserInput:
		return e.getUserInput(args)
	case ToolRemember:
		return e.remember(args)
	case ToolRecall:
		return e.recall(args)
	case ToolConfirmAction:
		return e.confirmAction(args)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("unknown tool %q", req.Tool),
		}, nil
	}
}

func (e *Executor) generateICP(args map[string]any) (contractx.ToolResult, error) {
	desc := str(args, "description")
	profile, err := e.deps.ICP.Generate(desc)
	if err != nil {
		return failure(ToolGenerateICP, err), nil
	}
	return jsonResult(ToolGenerateICP, profile)
}

func (e *Executor) getLeads(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	q := contractx.Query{
		Industry: str(args, "industry"),
		Role:     str(args, "role"),
		Location: str(args, "location"),
		Count:    num(args, "count"),
	}

	rows, err := e.deps.Leads.GetLeads(ctx, q)
	if err != nil {
		return failure(ToolGetLeads, err), nil
	}

	e.mu.Lock()
	for _, lead := range rows {
		e.leads[strings.ToLower(lead.Email)] = lead
	}
	e.mu.Unlock()

	return jsonResult(ToolGetLeads, rows)
}

func (e *Executor) scrapeWebsite(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	sum, err := e.deps.Scraper.Scrape(ctx, str(args, "url"))
	if err != nil {
		return failure(ToolScrapeWebsite, err), nil
	}
	return jsonResult(ToolScrapeWebsite, sum)
}

func (e *Executor) writeEmail(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	addr := strings.ToLower(str(args, "email"))

	e.mu.Lock()
	lead, ok := e.leads[addr]
	e.mu.Unlock()
	if !ok {
		return contractx.ToolResult{
			Tool:  ToolWriteEmail,
			Error: fmt.Sprintf("no lead on record for %q; call get_leads first", addr),
		}, nil
	}

	email, err := e.deps.Writer.Write(ctx, lead, str(args, "research"))
	if err != nil {
		return failure(ToolWriteEmail, err), nil
	}

	e.mu.Lock()
	e.drafts[addr] = email
	e.mu.Unlock()

	return jsonResult(ToolWriteEmail, email)
}

func (e *Executor) sendEmail(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	addr := strings.ToLower(str(args, "email"))

	e.mu.Lock()
	draft, ok := e.drafts[addr]
	e.mu.Unlock()
	if !ok {
		return contractx.ToolResult{
			Tool:  ToolSendEmail,
			Error: fmt.Sprintf("no draft for %q; call write_email first", addr),
		}, nil
	}

	if !e.deps.Gate.ConfirmAction(fmt.Sprintf("send the drafted email to %s", draft.To), false) {
		return contractx.ToolResult{
			Tool:   ToolSendEmail,
			Result: "operator declined; email not sent",
		}, nil
	}

	if err := e.deps.Sender.Send(ctx, draft); err != nil {
		return failure(ToolSendEmail, err), nil
	}

	e.mu.Lock()
	delete(e.drafts, addr)
	e.mu.Unlock()

	return contractx.ToolResult{
		Tool:   ToolSendEmail,
		Result: fmt.Sprintf("email sent to %s", draft.To),
	}, nil
}

func (e *Executor) logToCRM(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
	addr := strings.ToLower(str(args, "email"))

	e.mu.Lock()
	lead, ok := e.leads[addr]
	e.mu.Unlock()
	if !ok {
		return contractx.ToolResult{
			Tool:  ToolLogToCRM,
			Error: fmt.Sprintf("no lead on record for %q", addr),
		}, nil
	}

	entry := crmx.Entry{Lead: lead, Status: str(args, "status")}
	if err := e.deps.CRM.Log(ctx, entry); err != nil {
		return failure(ToolLogToCRM, err), nil
	}
	return contractx.ToolResult{
		Tool:   ToolLogToCRM,
		Result: fmt.Sprintf("logged %s with status %q", lead.Email, entry.Status),
	}, nil
}

func (e *Executor) addTask(args map[string]any) (contractx.ToolResult, error) {
	var deps []string
	if dep := str(args, "depends_on"); dep != "" {
		deps = append(deps, dep)
	}
	t, err := e.deps.Tasks.Add(str(args, "description"), deps...)
	if err != nil {
		return failure(ToolAddTask, err), nil
	}
	return jsonResult(ToolAddTask, t)
}

func (e *Executor) startTask(args map[string]any) (contractx.ToolResult, error) {
	t, err := e.deps.Tasks.Start(str(args, "id"))
	if err != nil {
		return failure(ToolStartTask, err), nil
	}
	return jsonResult(ToolStartTask, t)
}

func (e *Executor) completeTask(args map[string]any) (contractx.ToolResult, error) {
	t, err := e.deps.Tasks.Complete(str(args, "id"), str(args, "note"))
	if err != nil {
		return failure(ToolCompleteTask, err), nil
	}
	return jsonResult(ToolCompleteTask, t)
}

func (e *Executor) listTasks() (contractx.ToolResult, error) {
	return jsonResult(ToolListTasks, e.deps.Tasks.List(""))
}

func (e *Executor) getUserInput(args map[string]any) (contractx.ToolResult, error) {
	answer := e.deps.Gate.GetUserInput(str(args, "prompt"), str(args, "default"), nil)
	return contractx.ToolResult{Tool: ToolGetUserInput, Result: answer}, nil
}

func (e *Executor) remember(args map[string]any) (contractx.ToolResult, error) {
	key := str(args, "key")
	if key == "" {
		return contractx.ToolResult{Tool: ToolRemember, Error: "key is required"}, nil
	}
	if _, err := e.deps.Store.Remember(key, args["value"]); err != nil {
		return failure(ToolRemember, err), nil
	}
	return contractx.ToolResult{Tool: ToolRemember, Result: fmt.Sprintf("remembered %q", key)}, nil
}

func (e *Executor) recall(args map[string]any) (contractx.ToolResult, error) {
	rec, err := e.deps.Store.Recall(str(args, "key"))
	if err != nil {
		return failure(ToolRecall, err), nil
	}
	return jsonResult(ToolRecall, rec)
}

func (e *Executor) confirmAction(args map[string]any) (contractx.ToolResult, error) {
	approved := e.deps.Gate.ConfirmAction(str(args, "description"), false)
	result := "no"
	if approved {
		result = "yes"
	}
	return contractx.ToolResult{Tool: ToolConfirmAction, Result: result}, nil
}

func failure(tool string, err error) contractx.ToolResult {
	log.Warn().Err(err).Str("tool", tool).Msg("tool: call failed")
	return contractx.ToolResult{Tool: tool, Error: err.Error()}
}

func jsonResult(tool string, v any) (contractx.ToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return contractx.ToolResult{}, fmt.Errorf("marshal %s result: %w", tool, err)
	}
	return contractx.ToolResult{Tool: tool, Result: string(data)}, nil
}

func str(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// num reads an integer argument, tolerating the float64 shape JSON decoding
// produces.
func num(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}
