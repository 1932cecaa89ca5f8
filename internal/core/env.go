package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/tools"
)

// EnvironmentDetails renders a workspace snapshot: timestamp, working
// directory, and a bounded file listing. It is attached to user messages
// and tool results so the model always sees the current workspace shape.
func EnvironmentDetails(workspace string) string {
	files := tools.ListWorkspaceFiles(workspace, tools.MaxListedFiles)
	listing := "No files found."
	if len(files) > 0 {
		listing = strings.Join(files, "\n")
	}
	return fmt.Sprintf(
		"# Environment Details\nTime: %s\nWorking Directory: %s\n\n# Workspace Files\n%s",
		time.Now().Format(time.RFC1123Z), workspace, listing)
}

// attachEnvironment appends the workspace snapshot to an outgoing entry.
func attachEnvironment(msg *models.Message, workspace string) {
	env := "\n\n" + EnvironmentDetails(workspace)
	switch msg.Kind {
	case models.ContentText:
		msg.Text += env
	case models.ContentToolResult:
		msg.ToolResult += env
	}
}
