//go:build !windows

package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcengineering/huly-coder/internal/process"
)

func TestExecuteCommandWaitsForFastCommand(t *testing.T) {
	processes := process.NewRegistry(nil)
	defer processes.StopAll()
	tool := NewExecuteCommandTool(t.TempDir(), processes, nil)

	payload, err := tool.Execute(context.Background(), map[string]interface{}{
		"command": "echo hello",
	})
	require.NoError(t, err)
	assert.Contains(t, payload, "Exit Status: Exited(0)")
	assert.Contains(t, payload, "hello")
}

func TestExecuteCommandRunsInWorkspace(t *testing.T) {
	processes := process.NewRegistry(nil)
	defer processes.StopAll()
	workspace := t.TempDir()
	tool := NewExecuteCommandTool(workspace, processes, nil)

	payload, err := tool.Execute(context.Background(), map[string]interface{}{
		"command": "pwd",
	})
	require.NoError(t, err)
	assert.Contains(t, payload, workspace)
}

func TestExecuteCommandReportsNonZeroExit(t *testing.T) {
	processes := process.NewRegistry(nil)
	defer processes.StopAll()
	tool := NewExecuteCommandTool(t.TempDir(), processes, nil)

	payload, err := tool.Execute(context.Background(), map[string]interface{}{
		"command": "exit 3",
	})
	require.NoError(t, err, "a failing command is still a successful tool call")
	assert.Contains(t, payload, "Exit Status: Exited(3)")
}

func TestGetCommandResultWhileRunningAndAfterExit(t *testing.T) {
	processes := process.NewRegistry(nil)
	defer processes.StopAll()

	id, err := processes.Spawn("sleep 30", t.TempDir())
	require.NoError(t, err)

	getTool := NewGetCommandResultTool(processes)
	payload, err := getTool.Execute(context.Background(), map[string]interface{}{
		"command_id": float64(id),
	})
	require.NoError(t, err)
	assert.Contains(t, payload, "Command Still Running")

	termTool := NewTerminateCommandTool(processes)
	payload, err = termTool.Execute(context.Background(), map[string]interface{}{
		"command_id": float64(id),
	})
	require.NoError(t, err)
	assert.Contains(t, payload, "successfully terminated")
}

func TestGetCommandResultUnknownID(t *testing.T) {
	tool := NewGetCommandResultTool(process.NewRegistry(nil))
	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"command_id": float64(42),
	})
	require.Error(t, err)
}

func TestTerminateCommandUnknownID(t *testing.T) {
	tool := NewTerminateCommandTool(process.NewRegistry(nil))
	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"command_id": float64(42),
	})
	require.Error(t, err)
}

func TestCommandIDArgValidation(t *testing.T) {
	_, err := commandIDArg(map[string]interface{}{})
	require.Error(t, err)

	_, err = commandIDArg(map[string]interface{}{"command_id": "seven"})
	require.Error(t, err)

	id, err := commandIDArg(map[string]interface{}{"command_id": float64(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}
