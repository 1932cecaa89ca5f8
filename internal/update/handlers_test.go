package update

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/models"
)

func apply(appModel *models.AppModel, event eventbus.OutputEvent) {
	HandleOutputEvent(appModel, OutputEventMsg{Event: event})
}

func TestAddAndUpdateMessage(t *testing.T) {
	var appModel models.AppModel

	apply(&appModel, eventbus.AddMessageEvent{Message: models.AssistantText("Hel")})
	apply(&appModel, eventbus.UpdateMessageEvent{Message: models.AssistantText("Hello")})

	assert.Len(t, appModel.Messages, 1)
	assert.Equal(t, "Hello", appModel.Messages[0].Text)
}

func TestTaskResetClearsPanes(t *testing.T) {
	appModel := models.AppModel{
		Messages: []models.Message{models.UserText("hi")},
		Commands: []models.CommandStatus{{ID: 1}},
		LastError: "boom",
	}
	appModel.PendingConfirm = &models.ToolCall{ID: "c1"}

	apply(&appModel, eventbus.TaskResetEvent{})

	assert.Empty(t, appModel.Messages)
	assert.Empty(t, appModel.Commands)
	assert.Nil(t, appModel.PendingConfirm)
	assert.Empty(t, appModel.LastError)
}

func TestCommandStatusMergesById(t *testing.T) {
	var appModel models.AppModel

	apply(&appModel, eventbus.CommandStatusEvent{Commands: []models.CommandStatus{
		{ID: 1, Command: "sleep 5", IsActive: true},
	}})
	apply(&appModel, eventbus.CommandStatusEvent{Commands: []models.CommandStatus{
		{ID: 1, Command: "sleep 5", Output: "done", IsActive: false},
		{ID: 2, Command: "echo hi", IsActive: true},
	}})

	assert.Len(t, appModel.Commands, 2)
	assert.False(t, appModel.Commands[0].IsActive)
	assert.Equal(t, "done", appModel.Commands[0].Output)
	assert.Equal(t, 2, appModel.Commands[1].ID)
}

func TestAgentStatusUpdatesStatusBar(t *testing.T) {
	var appModel models.AppModel

	apply(&appModel, eventbus.AgentStatusEvent{
		TokensUsed: 500,
		TokensMax:  1000,
		Processing: true,
		State:      models.StateThinking{},
	})

	assert.True(t, appModel.Processing)
	assert.Equal(t, 500, appModel.TokensUsed)
	assert.Equal(t, models.StateLabel(models.StateThinking{}), appModel.Status)
}

func TestConfirmRequestAndError(t *testing.T) {
	var appModel models.AppModel

	apply(&appModel, eventbus.ConfirmRequestEvent{Call: models.ToolCall{ID: "c1", Name: "write_to_file"}})
	assert.NotNil(t, appModel.PendingConfirm)
	assert.Equal(t, "write_to_file", appModel.PendingConfirm.Name)

	apply(&appModel, eventbus.ErrorEvent{Message: "stream failed"})
	assert.Equal(t, "stream failed", appModel.LastError)
}
