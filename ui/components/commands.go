package components

import (
	"fmt"
	"strings"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/ui/styles"
)

// RenderCommands shows the background command pane. Finished commands stay
// listed with their exit markers until the next task reset.
func RenderCommands(commands []models.CommandStatus) string {
	if len(commands) == 0 {
		return ""
	}

	style := styles.CommandStyle()
	var b strings.Builder
	b.WriteString(style.Render("Commands:") + "\n")
	for _, cmd := range commands {
		marker := "●"
		if !cmd.IsActive {
			marker = "✓"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s [%d] %s", marker, cmd.ID, cmd.Command)) + "\n")
	}
	return b.String()
}
