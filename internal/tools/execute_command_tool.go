package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/process"
)

// commandPollIterations bounds the soft timeout of ExecuteCommandTool:
// after this many polls the tool returns a partial result while the
// process keeps running in the registry.
const (
	commandPollIterations = 300
	commandPollInterval   = 100 * time.Millisecond
)

// ExecuteCommandTool runs a shell command through the process registry and
// waits for it with a bounded poll loop. Long-running commands are left in
// the registry and can be queried later by id.
type ExecuteCommandTool struct {
	workspace string
	processes *process.Registry
	bus       *eventbus.EventBus
}

func NewExecuteCommandTool(workspace string, processes *process.Registry, bus *eventbus.EventBus) *ExecuteCommandTool {
	return &ExecuteCommandTool{workspace: workspace, processes: processes, bus: bus}
}

func (t *ExecuteCommandTool) Name() string {
	return "execute_command"
}

func (t *ExecuteCommandTool) Description() string {
	return "Execute a CLI command on the system. Returns the command ID, exit status, and output upon completion. " +
		"If the command is still running after the wait window, returns the ID, partial output, and a 'Command is run' indicator; " +
		"use get_command_result later to retrieve the final output. Commands are executed in the workspace directory."
}

func (t *ExecuteCommandTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"command": map[string]interface{}{
			"type":        "string",
			"description": "The CLI command to execute. This should be valid for the current operating system.",
		},
	}
}

func (t *ExecuteCommandTool) RequiredParameters() []string {
	return []string{"command"}
}

func (t *ExecuteCommandTool) RequiresConfirmation() bool {
	return true
}

func (t *ExecuteCommandTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	command, ok := args["command"].(string)
	if !ok {
		return "", fmt.Errorf("command parameter must be a string")
	}

	id, err := t.processes.Spawn(command, t.workspace)
	if err != nil {
		return "", err
	}

	var lastOutput string
	for i := 0; i < commandPollIterations; i++ {
		changed := t.processes.Poll()
		if len(changed) > 0 && t.bus != nil {
			t.bus.SendOutput(eventbus.CommandStatusEvent{Commands: changed})
		}

		status, output, exists := t.processes.Get(id)
		if !exists {
			return "", fmt.Errorf("command %d not found in registry", id)
		}
		if status != nil {
			return fmt.Sprintf("Command ID: %d\nExit Status: Exited(%d)\nOutput:\n%s", id, *status, output), nil
		}
		lastOutput = output

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(commandPollInterval):
		}
	}

	// Soft timeout: report partial output, leave the process running.
	return fmt.Sprintf("Command ID: %d\nCommand is run\nOutput:\n%s", id, lastOutput), nil
}

// GetCommandResultTool retrieves the current result of a previously started
// command that may still be running.
type GetCommandResultTool struct {
	processes *process.Registry
}

func NewGetCommandResultTool(processes *process.Registry) *GetCommandResultTool {
	return &GetCommandResultTool{processes: processes}
}

func (t *GetCommandResultTool) Name() string {
	return "get_command_result"
}

func (t *GetCommandResultTool) Description() string {
	return "Retrieve the complete result of a command previously started by execute_command that may still be running."
}

func (t *GetCommandResultTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"command_id": map[string]interface{}{
			"type":        "number",
			"description": "The identifier of the command returned by the execute_command tool",
		},
	}
}

func (t *GetCommandResultTool) RequiredParameters() []string {
	return []string{"command_id"}
}

func (t *GetCommandResultTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := commandIDArg(args)
	if err != nil {
		return "", err
	}

	t.processes.Poll()
	status, output, exists := t.processes.Get(id)
	if !exists {
		return "", fmt.Errorf("command %d not found", id)
	}
	if status != nil {
		return fmt.Sprintf("Command ID: %d\nExit Status: Exited(%d)\nOutput:\n%s", id, *status, output), nil
	}
	return fmt.Sprintf("Command ID: %d\nCommand Still Running\nOutput:\n%s", id, output), nil
}

// TerminateCommandTool cancels a running command by id.
type TerminateCommandTool struct {
	processes *process.Registry
}

func NewTerminateCommandTool(processes *process.Registry) *TerminateCommandTool {
	return &TerminateCommandTool{processes: processes}
}

func (t *TerminateCommandTool) Name() string {
	return "terminate_command"
}

func (t *TerminateCommandTool) Description() string {
	return "Terminate the command execution with the given ID. command_id is the ID returned by the execute_command tool."
}

func (t *TerminateCommandTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"command_id": map[string]interface{}{
			"type":        "number",
			"description": "ID of command to terminate",
		},
	}
}

func (t *TerminateCommandTool) RequiredParameters() []string {
	return []string{"command_id"}
}

func (t *TerminateCommandTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	id, err := commandIDArg(args)
	if err != nil {
		return "", err
	}

	if _, _, exists := t.processes.Get(id); !exists {
		return "", fmt.Errorf("command %d not found", id)
	}
	t.processes.Cancel(id)
	return fmt.Sprintf("Command with ID %d successfully terminated.", id), nil
}

func commandIDArg(args map[string]interface{}) (int, error) {
	val, exists := args["command_id"]
	if !exists {
		return 0, fmt.Errorf("command_id parameter is required")
	}
	num, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("command_id parameter must be a number")
	}
	return int(num), nil
}
