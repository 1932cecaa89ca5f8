package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hcengineering/huly-coder/internal/models"
)

// Tool represents a capability that can be called by the model. Every tool
// receives pre-validated structured arguments and returns a string payload.
// An empty payload from a successful call means "needs external input" and
// is treated specially by the orchestrator; it is distinct from a payload
// that merely describes a failure in text.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{} // JSON schema for parameters
	RequiredParameters() []string       // List of required parameter names
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// ConfirmRequirer marks tools that must not run before the user approves
// the call.
type ConfirmRequirer interface {
	RequiresConfirmation() bool
}

// Registry manages available tools
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Name()] = tool
}

// GetTool retrieves a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// ListTools returns all registered tools
func (r *Registry) ListTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// NeedsConfirmation reports whether the named tool is gated behind user
// approval.
func (r *Registry) NeedsConfirmation(name string) bool {
	tool, exists := r.GetTool(name)
	if !exists {
		return false
	}
	if req, ok := tool.(ConfirmRequirer); ok {
		return req.RequiresConfirmation()
	}
	return false
}

// GetToolsSpec returns OpenAI-compatible tool specifications
func (r *Registry) GetToolsSpec() []map[string]interface{} {
	tools := r.ListTools()
	specs := make([]map[string]interface{}, len(tools))

	for i, tool := range tools {
		specs[i] = map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        tool.Name(),
				"description": tool.Description(),
				"parameters": map[string]interface{}{
					"type":       "object",
					"properties": tool.Parameters(),
					"required":   tool.RequiredParameters(),
				},
			},
		}
	}

	return specs
}

// Execute routes a tool call to its implementation and returns the string
// payload. The arguments are decoded from the call's raw JSON before
// dispatch so every tool sees one structured arguments object.
func (r *Registry) Execute(ctx context.Context, call models.ToolCall) (string, error) {
	tool, exists := r.GetTool(call.Name)
	if !exists {
		return "", fmt.Errorf("tool '%s' not found", call.Name)
	}

	args := map[string]interface{}{}
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			return "", fmt.Errorf("failed to parse arguments for '%s': %w", call.Name, err)
		}
	}

	return tool.Execute(ctx, args)
}
