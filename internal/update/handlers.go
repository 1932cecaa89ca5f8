package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/models"
)

// OutputEventMsg wraps agent output events for Bubble Tea.
type OutputEventMsg struct {
	Event eventbus.OutputEvent
}

// WaitForOutputEvent blocks on the bus until the agent emits the next
// output event. The Update loop re-issues it after every received event.
func WaitForOutputEvent(eb *eventbus.EventBus) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-eb.OutputEvents()
		if !ok {
			return tea.Quit()
		}
		return OutputEventMsg{Event: event}
	}
}

// HandleOutputEvent applies one agent event to the UI state.
func HandleOutputEvent(appModel *models.AppModel, msg OutputEventMsg) {
	switch event := msg.Event.(type) {
	case eventbus.AddMessageEvent:
		appModel.Messages = append(appModel.Messages, event.Message)
	case eventbus.UpdateMessageEvent:
		if n := len(appModel.Messages); n > 0 {
			appModel.Messages[n-1] = event.Message
		}
	case eventbus.TaskResetEvent:
		appModel.Messages = nil
		appModel.Commands = nil
		appModel.PendingConfirm = nil
		appModel.LastError = ""
	case eventbus.CommandStatusEvent:
		mergeCommands(appModel, event.Commands)
	case eventbus.AgentStatusEvent:
		appModel.Processing = event.Processing
		appModel.State = event.State
		appModel.TokensUsed = event.TokensUsed
		appModel.TokensMax = event.TokensMax
		appModel.Status = models.StateLabel(event.State)
	case eventbus.ConfirmRequestEvent:
		call := event.Call
		appModel.PendingConfirm = &call
	case eventbus.ErrorEvent:
		appModel.LastError = event.Message
	case eventbus.HighlightFileEvent:
		// File highlighting is informational; the status bar is enough.
		appModel.Status = "File: " + event.Path
	}
}

// mergeCommands folds a registry delta into the command pane, keeping one
// entry per command id.
func mergeCommands(appModel *models.AppModel, changed []models.CommandStatus) {
	for _, cmd := range changed {
		replaced := false
		for i := range appModel.Commands {
			if appModel.Commands[i].ID == cmd.ID {
				appModel.Commands[i] = cmd
				replaced = true
				break
			}
		}
		if !replaced {
			appModel.Commands = append(appModel.Commands, cmd)
		}
	}
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}
