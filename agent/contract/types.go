package contract

import "strings"

// Lead is the canonical contact record returned by every acquisition source.
// Name, Title, Company and Email are always non-empty for a lead handed back
// to a caller; the remaining fields may be blank.
type Lead struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin,omitempty"`
	Industry string `json:"industry,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Valid reports whether the lead satisfies the required-field invariant.
func (l Lead) Valid() bool {
	return strings.TrimSpace(l.Name) != "" &&
		strings.TrimSpace(l.Title) != "" &&
		strings.TrimSpace(l.Company) != "" &&
		strings.TrimSpace(l.Email) != ""
}

// Query is the resolved ICP filter for one acquisition pass.
type Query struct {
	Industry string `json:"industry"`
	Role     string `json:"role"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// ToolRequest is a function call the planner wants executed.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries one tool outcome back to the planner. Result holds the
// rendered payload; Error is a provider/tool message for the model, not a Go
// error. Tool execution failures are conversational, never fatal.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
