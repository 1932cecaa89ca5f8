package provider

import (
	"encoding/json"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcengineering/huly-coder/internal/models"
)

func TestToOpenAIMessages(t *testing.T) {
	history := []models.Message{
		models.UserText("run the tests"),
		models.AssistantText("running them now"),
		models.AssistantToolCall(models.ToolCall{
			ID:        "call-1",
			Name:      "execute_command",
			Arguments: json.RawMessage(`{"command":"go test ./..."}`),
		}),
		models.ToolResultMessage("call-1", "ok\tall passing"),
	}

	converted := toOpenAIMessages(history)
	require.Len(t, converted, 4)

	assert.Equal(t, openai.ChatMessageRoleUser, converted[0].Role)
	assert.Equal(t, "run the tests", converted[0].Content)

	assert.Equal(t, openai.ChatMessageRoleAssistant, converted[1].Role)
	assert.Equal(t, "running them now", converted[1].Content)

	require.Len(t, converted[2].ToolCalls, 1)
	call := converted[2].ToolCalls[0]
	assert.Equal(t, "call-1", call.ID)
	assert.Equal(t, "execute_command", call.Function.Name)
	assert.JSONEq(t, `{"command":"go test ./..."}`, call.Function.Arguments)

	assert.Equal(t, openai.ChatMessageRoleTool, converted[3].Role)
	assert.Equal(t, "call-1", converted[3].ToolCallID)
	assert.Equal(t, "ok\tall passing", converted[3].Content)
}

func TestToOpenAIMessagesSkipsNilToolCall(t *testing.T) {
	history := []models.Message{{Role: models.RoleAssistant, Kind: models.ContentToolCall}}
	assert.Empty(t, toOpenAIMessages(history))
}

func TestConvertToolSpecs(t *testing.T) {
	specs := []map[string]interface{}{{
		"type": "function",
		"function": map[string]interface{}{
			"name":        "read_file",
			"description": "Read a file",
			"parameters": map[string]interface{}{
				"type": "object",
			},
		},
	}}

	tools := convertToolSpecs(specs)
	require.Len(t, tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, tools[0].Type)
	assert.Equal(t, "read_file", tools[0].Function.Name)
	assert.Equal(t, "Read a file", tools[0].Function.Description)
}

func index(i int) *int { return &i }

func TestToolCallAssemblerFragments(t *testing.T) {
	asm := newToolCallAssembler()

	// Id and name arrive on the first fragment, arguments trickle in.
	asm.add([]openai.ToolCall{{
		Index:    index(0),
		ID:       "call-1",
		Function: openai.FunctionCall{Name: "write_to_file", Arguments: `{"path":`},
	}})
	asm.add([]openai.ToolCall{{
		Index:    index(0),
		Function: openai.FunctionCall{Arguments: `"main.go"}`},
	}})

	calls := asm.flush()
	require.Len(t, calls, 1)
	assert.Equal(t, "call-1", calls[0].ID)
	assert.Equal(t, "write_to_file", calls[0].Name)
	assert.JSONEq(t, `{"path":"main.go"}`, string(calls[0].Arguments))
}

func TestToolCallAssemblerMultipleCallsKeepOrder(t *testing.T) {
	asm := newToolCallAssembler()
	asm.add([]openai.ToolCall{
		{Index: index(0), ID: "a", Function: openai.FunctionCall{Name: "read_file", Arguments: `{}`}},
		{Index: index(1), ID: "b", Function: openai.FunctionCall{Name: "list_files", Arguments: `{}`}},
	})
	asm.add([]openai.ToolCall{
		{Index: index(1), Function: openai.FunctionCall{Arguments: ``}},
	})

	calls := asm.flush()
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].ID)
	assert.Equal(t, "b", calls[1].ID)
}

func TestToolCallAssemblerFillsMissingIDAndArgs(t *testing.T) {
	asm := newToolCallAssembler()
	asm.add([]openai.ToolCall{{
		Index:    index(0),
		Function: openai.FunctionCall{Name: "attempt_completion"},
	}})

	calls := asm.flush()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].ID, "endpoints that omit call ids still get one")
	assert.Equal(t, "{}", string(calls[0].Arguments))
}

func TestToolCallAssemblerFlushResets(t *testing.T) {
	asm := newToolCallAssembler()
	asm.add([]openai.ToolCall{{Index: index(0), ID: "a", Function: openai.FunctionCall{Name: "read_file"}}})
	require.Len(t, asm.flush(), 1)
	assert.Empty(t, asm.flush())
}
