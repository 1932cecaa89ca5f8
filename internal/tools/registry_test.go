package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/process"
)

func newBuiltinRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	workspace := t.TempDir()
	registry := NewRegistry()
	RegisterBuiltinTools(registry, workspace, process.NewRegistry(nil), nil)
	return registry, workspace
}

func TestRegisterAndGetTool(t *testing.T) {
	registry, _ := newBuiltinRegistry(t)

	tool, exists := registry.GetTool("read_file")
	require.True(t, exists)
	assert.Equal(t, "read_file", tool.Name())

	_, exists = registry.GetTool("no_such_tool")
	assert.False(t, exists)
}

func TestBuiltinToolSet(t *testing.T) {
	registry, _ := newBuiltinRegistry(t)

	expected := []string{
		"read_file", "write_to_file", "replace_in_file", "list_files",
		"search_files", "execute_command", "get_command_result",
		"terminate_command", "web_fetch", "ask_followup_question",
		"attempt_completion",
	}
	for _, name := range expected {
		_, exists := registry.GetTool(name)
		assert.True(t, exists, "missing builtin tool %s", name)
	}
	assert.Len(t, registry.ListTools(), len(expected))
}

func TestNeedsConfirmation(t *testing.T) {
	registry, _ := newBuiltinRegistry(t)

	assert.True(t, registry.NeedsConfirmation("write_to_file"))
	assert.True(t, registry.NeedsConfirmation("replace_in_file"))
	assert.True(t, registry.NeedsConfirmation("execute_command"))
	assert.False(t, registry.NeedsConfirmation("read_file"))
	assert.False(t, registry.NeedsConfirmation("ask_followup_question"))
	assert.False(t, registry.NeedsConfirmation("no_such_tool"))
}

func TestGetToolsSpecShape(t *testing.T) {
	registry, _ := newBuiltinRegistry(t)

	specs := registry.GetToolsSpec()
	require.Len(t, specs, len(registry.ListTools()))
	for _, spec := range specs {
		assert.Equal(t, "function", spec["type"])
		function, ok := spec["function"].(map[string]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, function["name"])
		assert.NotEmpty(t, function["description"])
		parameters, ok := function["parameters"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "object", parameters["type"])
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Execute(context.Background(), models.ToolCall{Name: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestExecuteMalformedArguments(t *testing.T) {
	registry, _ := newBuiltinRegistry(t)
	_, err := registry.Execute(context.Background(), models.ToolCall{
		Name:      "read_file",
		Arguments: json.RawMessage(`{"path": `),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse arguments")
}

func TestFollowupQuestionReturnsEmptyPayload(t *testing.T) {
	tool := &FollowupQuestionTool{}
	payload, err := tool.Execute(context.Background(), map[string]interface{}{
		"question": "which branch?",
	})
	require.NoError(t, err)
	assert.Empty(t, payload, "empty payload is the needs-input signal")
}

func TestCompletionReturnsResult(t *testing.T) {
	tool := &CompletionTool{}
	payload, err := tool.Execute(context.Background(), map[string]interface{}{
		"result": "refactoring finished",
	})
	require.NoError(t, err)
	assert.Equal(t, "refactoring finished", payload)

	_, err = tool.Execute(context.Background(), map[string]interface{}{})
	require.Error(t, err)
}

func TestResolveWorkspacePathRejectsEscapes(t *testing.T) {
	_, err := resolveWorkspacePath("/tmp/ws", "/etc/passwd")
	require.Error(t, err)

	_, err = resolveWorkspacePath("/tmp/ws", "../outside.txt")
	require.Error(t, err)

	resolved, err := resolveWorkspacePath("/tmp/ws", "sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ws/sub/file.txt", resolved)
}
