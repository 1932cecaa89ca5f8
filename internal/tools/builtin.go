package tools

import (
	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/process"
)

// RegisterBuiltinTools registers the full builtin tool set against the
// given workspace, process registry, and event bus.
func RegisterBuiltinTools(registry *Registry, workspace string, processes *process.Registry, bus *eventbus.EventBus) {
	registry.Register(NewFileReadTool(workspace))
	registry.Register(NewWriteFileTool(workspace))
	registry.Register(NewReplaceInFileTool(workspace))
	registry.Register(NewListFilesTool(workspace))
	registry.Register(NewSearchFilesTool(workspace))
	registry.Register(NewExecuteCommandTool(workspace, processes, bus))
	registry.Register(NewGetCommandResultTool(processes))
	registry.Register(NewTerminateCommandTool(processes))
	registry.Register(NewWebFetchTool())
	registry.Register(&FollowupQuestionTool{})
	registry.Register(&CompletionTool{})
}
