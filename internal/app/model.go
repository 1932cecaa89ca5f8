package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/update"
	"github.com/hcengineering/huly-coder/ui/components"
	"github.com/hcengineering/huly-coder/ui/styles"
)

// chromeHeight is the vertical space reserved below the viewport for the
// input box and status bar.
const chromeHeight = 5

// Model is the Bubble Tea root model. It holds only display state; all
// conversation state lives in the orchestrator and arrives through the bus.
type Model struct {
	appModel    models.AppModel
	bus         *eventbus.EventBus
	input       textinput.Model
	viewport    viewport.Model
	loadingDots int
	ready       bool
}

func NewModel(bus *eventbus.EventBus, history []models.Message) *Model {
	input := textinput.New()
	input.Placeholder = "Describe your task..."
	input.Focus()

	return &Model{
		appModel: models.AppModel{
			Messages: history,
			Status:   "Ready",
		},
		bus:   bus,
		input: input,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		update.TickCmd(),
		update.WaitForOutputEvent(m.bus),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update.OutputEventMsg:
		update.HandleOutputEvent(&m.appModel, msg)
		m.refreshViewport()
		return m, update.WaitForOutputEvent(m.bus)

	case update.TickMsg:
		if m.appModel.Processing {
			m.loadingDots = (m.loadingDots + 1) % 4
		}
		return m, update.TickCmd()

	case tea.WindowSizeMsg:
		update.HandleWindowSizeMsg(&m.appModel, msg)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.input.Width = msg.Width - 8
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending confirmation captures the keyboard until decided.
	if m.appModel.PendingConfirm != nil {
		switch msg.String() {
		case "y", "Y":
			m.decideConfirm(eventbus.ConfirmApprove)
		case "n", "N":
			m.decideConfirm(eventbus.ConfirmDeny)
		case "a", "A":
			m.decideConfirm(eventbus.ConfirmAlwaysApprove)
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.bus.SendControl(eventbus.CancelTaskEvent{})
		return m, nil
	case "ctrl+n":
		m.bus.SendControl(eventbus.NewTaskEvent{})
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text != "" {
			m.bus.SendControl(eventbus.SendMessageEvent{Text: text})
			m.input.Reset()
			m.appModel.LastError = ""
		}
		return m, nil
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) decideConfirm(decision eventbus.ConfirmDecision) {
	m.bus.SendControl(eventbus.ConfirmToolEvent{Decision: decision})
	m.appModel.PendingConfirm = nil
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	content := components.RenderMessages(m.appModel.Messages)
	if pane := components.RenderCommands(m.appModel.Commands); pane != "" {
		content += "\n" + pane
	}
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.appModel.PendingConfirm != nil {
		b.WriteString(components.RenderConfirm(m.appModel.PendingConfirm, m.appModel.Width))
	} else {
		b.WriteString(components.RenderInput(m.input.View(), m.appModel.Width))
	}
	b.WriteString("\n")
	if m.appModel.LastError != "" {
		b.WriteString(styles.ErrorStyle().Render("Error: "+m.appModel.LastError) + "\n")
	}
	b.WriteString(components.RenderStatus(
		m.appModel.Status,
		m.appModel.Processing,
		m.loadingDots,
		m.appModel.TokensUsed,
		m.appModel.TokensMax,
		m.appModel.Width,
	))
	return b.String()
}
