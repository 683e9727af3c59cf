// Package tool exposes the agent's capabilities as OpenAI function tools
// and dispatches the model's tool calls onto the underlying subsystems.
package tool

import (
	"github.com/openai/openai-go"
)

const (
	ToolGetLeads      = "get_leads"
	ToolGenerateICP   = "generate_icp"
	ToolScrapeWebsite = "scrape_website"
	ToolWriteEmail    = "write_email"
	ToolSendEmail     = "send_email"
	ToolLogToCRM      = "log_to_crm"
	ToolAddTask       = "add_task"
	ToolStartTask     = "start_task"
	ToolCompleteTask  = "complete_task"
	ToolListTasks     = "list_tasks"
	ToolGetUserInput  = "get_user_input"
	ToolRemember      = "remember"
	ToolRecall        = "recall"
	ToolConfirmAction = "confirm_action"
)

// Catalog returns every tool definition in the order they are advertised to
// the model.
func Catalog() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		def(ToolGenerateICP,
			"Generate an ideal customer profile from the operator's business description.",
			map[string]any{
				"description": prop("string", "Free-text description of the operator's business and offering"),
			},
			[]string{"description"},
		),
		def(ToolGetLeads,
			"Find leads matching an industry, role and location. Falls back across providers automatically.",
			map[string]any{
				"industry": prop("string", "Target industry, e.g. AI SaaS"),
				"role":     prop("string", "Target job title, e.g. CTO"),
				"location": prop("string", "Target location, e.g. San Francisco"),
				"count":    prop("integer", "How many leads to fetch; omit to use the remembered or default count"),
			},
			[]string{"industry", "role", "location"},
		),
		def(ToolScrapeWebsite,
			"Fetch and summarize a company website for personalization.",
			map[string]any{
				"url": prop("string", "Website URL to scrape"),
			},
			[]string{"url"},
		),
		def(ToolWriteEmail,
			"Write a personalized cold email for a lead identified by email address.",
			map[string]any{
				"email":    prop("string", "Lead's email address, as returned by get_leads"),
				"research": prop("string", "Optional research notes to personalize with"),
			},
			[]string{"email"},
		),
		def(ToolSendEmail,
			"Send a previously written email. Requires operator confirmation first.",
			map[string]any{
				"email": prop("string", "Recipient address of the drafted email"),
			},
			[]string{"email"},
		),
		def(ToolLogToCRM,
			"Record a contacted lead in the CRM.",
			map[string]any{
				"email":  prop("string", "Lead's email address"),
				"status": prop("string", "Contact status, e.g. emailed, replied"),
			},
			[]string{"email", "status"},
		),
		def(ToolAddTask,
			"Add a task to the run's task list.",
			map[string]any{
				"description": prop("string", "What the task accomplishes"),
				"depends_on":  prop("string", "Optional ID of a task that must complete first"),
			},
			[]string{"description"},
		),
		def(ToolStartTask,
			"Mark a pending task as in progress.",
			map[string]any{
				"id": prop("string", "Task ID"),
			},
			[]string{"id"},
		),
		def(ToolCompleteTask,
			"Mark an in-progress task as completed.",
			map[string]any{
				"id":   prop("string", "Task ID"),
				"note": prop("string", "Optional completion note"),
			},
			[]string{"id"},
		),
		def(ToolListTasks,
			"List all tasks with their statuses.",
			map[string]any{},
			nil,
		),
		def(ToolGetUserInput,
			"Ask the operator a question and return their answer.",
			map[string]any{
				"prompt":  prop("string", "Question to ask"),
				"default": prop("string", "Answer to use when the operator just presses enter"),
			},
			[]string{"prompt"},
		),
		def(ToolRemember,
			"Persist a value across sessions under a key.",
			map[string]any{
				"key":   prop("string", "Memory key"),
				"value": prop("string", "Value to remember"),
			},
			[]string{"key", "value"},
		),
		def(ToolRecall,
			"Recall a previously remembered value.",
			map[string]any{
				"key": prop("string", "Memory key"),
			},
			[]string{"key"},
		),
		def(ToolConfirmAction,
			"Ask the operator to approve an action. Returns yes or no.",
			map[string]any{
				"description": prop("string", "What will happen if approved"),
			},
			[]string{"description"},
		),
	}
}

func def(name, desc string, props map[string]any, required []string) openai.ChatCompletionToolParam {
	params := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(desc),
			Parameters:  params,
		},
	}
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}
