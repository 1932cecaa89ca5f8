package components

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hcengineering/huly-coder/internal/models"
)

func TestRenderMessagesLabelsToolResults(t *testing.T) {
	history := []models.Message{
		models.UserText("please write the file"),
		models.AssistantToolCall(models.ToolCall{
			ID:        "call-1",
			Name:      "write_to_file",
			Arguments: json.RawMessage(`{"path":"a.txt"}`),
		}),
		models.ToolResultMessage("call-1", "File successfully written"),
	}

	out := RenderMessages(history)
	require.Contains(t, out, "✔ write_to_file")
	require.Contains(t, out, "File successfully written")
}

func TestRenderMessagesHidesEnvironmentDetails(t *testing.T) {
	history := []models.Message{
		models.UserText("fix it\n\n# Environment Details\ncwd: /tmp"),
	}

	out := RenderMessages(history)
	require.Contains(t, out, "fix it")
	require.NotContains(t, out, "Environment Details")
}

func TestRenderMessagesTruncatesLongResults(t *testing.T) {
	long := strings.Repeat("line\n", 30)
	history := []models.Message{
		models.AssistantToolCall(models.ToolCall{ID: "c1", Name: "read_file", Arguments: json.RawMessage(`{}`)}),
		models.ToolResultMessage("c1", long),
	}

	out := RenderMessages(history)
	require.Contains(t, out, "more lines")
}
