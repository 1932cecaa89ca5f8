package components

import (
	"fmt"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/ui/styles"
)

// RenderConfirm shows the approval prompt for a gated tool call.
func RenderConfirm(call *models.ToolCall, width int) string {
	if call == nil {
		return ""
	}
	prompt := fmt.Sprintf("Allow %s %s?\n[y] approve  [n] deny  [a] always approve",
		call.Name, string(call.Arguments))
	return styles.ConfirmStyle(width).Render(prompt)
}
