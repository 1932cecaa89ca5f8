package components

import (
	"fmt"
	"strings"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/utils"
	"github.com/hcengineering/huly-coder/ui/styles"
)

const maxResultPreviewLines = 8

func RenderMessages(messages []models.Message) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	toolCallStyle := styles.ToolCallStyle()
	toolResultStyle := styles.ToolResultStyle()

	for _, msg := range messages {
		switch msg.Kind {
		case models.ContentText:
			text := stripEnvironment(msg.Text)
			if msg.Role == models.RoleUser {
				b.WriteString(userStyle.Render("You: "+text) + "\n\n")
			} else {
				b.WriteString(assistantStyle.Render(utils.RenderMarkdown(text)) + "\n\n")
			}
		case models.ContentToolCall:
			if msg.ToolCall != nil {
				b.WriteString(toolCallStyle.Render(fmt.Sprintf("⚙ %s %s", msg.ToolCall.Name, string(msg.ToolCall.Arguments))) + "\n\n")
			}
		case models.ContentToolResult:
			preview := previewLines(stripEnvironment(msg.ToolResult), maxResultPreviewLines)
			label := models.ToolNameFor(messages, msg.ToolCallID)
			b.WriteString(toolResultStyle.Render(fmt.Sprintf("✔ %s\n%s", label, preview)) + "\n\n")
		}
	}

	return b.String()
}

// stripEnvironment hides the workspace snapshot appended to outgoing
// entries; it is for the model, not the user.
func stripEnvironment(text string) string {
	if idx := strings.Index(text, "\n\n# Environment Details"); idx >= 0 {
		return text[:idx]
	}
	return text
}

func previewLines(text string, max int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= max {
		return text
	}
	return strings.Join(lines[:max], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}
