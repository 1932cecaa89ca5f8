package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hcengineering/huly-coder/internal/config"
	"github.com/hcengineering/huly-coder/internal/eventbus"
	"github.com/hcengineering/huly-coder/internal/models"
	"github.com/hcengineering/huly-coder/internal/process"
	"github.com/hcengineering/huly-coder/internal/provider"
	"github.com/hcengineering/huly-coder/internal/tools"
)

// tickInterval paces the driver loop so control-event intake and stream
// advancement interleave without starving each other.
const tickInterval = 10 * time.Millisecond

// Agent is the orchestrator state machine. It consumes control events,
// advances the model stream one item per tick, dispatches tool calls, and
// persists conversation history at every turn boundary. All state is owned
// by the driver goroutine; the UI only receives copies through the bus.
type Agent struct {
	cfg       *config.Config
	bus       *eventbus.EventBus
	registry  *tools.Registry
	processes *process.Registry
	provider  provider.Provider
	logger    *zap.Logger

	messages        []models.Message
	stream          provider.Stream
	assistantText   string
	assistantOpen   bool
	processing      bool
	hasCompletion   bool
	pendingToolID   string
	awaitingConfirm *models.ToolCall
	alwaysApprove   bool
	state           models.AgentState
	tokensUsed      int

	lastProcessing bool
	lastStateLabel string
}

// NewAgent creates the orchestrator in the Paused state with the given
// preloaded history.
func NewAgent(
	cfg *config.Config,
	bus *eventbus.EventBus,
	registry *tools.Registry,
	processes *process.Registry,
	prov provider.Provider,
	logger *zap.Logger,
	history []models.Message,
) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		cfg:       cfg,
		bus:       bus,
		registry:  registry,
		processes: processes,
		provider:  prov,
		logger:    logger,
		messages:  history,
		state:     models.StatePaused{},
	}
}

// Run drives the orchestrator until ctx is done or the bus is closed. Each
// tick drains at most one control event, advances the stream by one item,
// forwards background command deltas, and emits a status event when the
// visible state changed.
func (a *Agent) Run(ctx context.Context) {
	a.logger.Info("run agent", zap.String("model", a.cfg.GetModel()))
	a.emitStatus(true)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("stop agent")
			return
		default:
		}

		select {
		case event, ok := <-a.bus.ControlEvents():
			if !ok {
				a.logger.Info("stop agent")
				return
			}
			a.handleControlEvent(ctx, event)
		default:
		}

		if err := a.step(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			a.handleStreamError(err)
		}
		a.forwardCommandStatus()
		a.emitStatus(false)
		time.Sleep(tickInterval)
	}
}

func (a *Agent) handleControlEvent(ctx context.Context, event eventbus.ControlEvent) {
	switch e := event.(type) {
	case eventbus.SendMessageEvent:
		a.logger.Info("send message", zap.Int("len", len(e.Text)))
		a.sendMessage(e.Text)
	case eventbus.CancelTaskEvent:
		a.cancelTask()
	case eventbus.NewTaskEvent:
		a.newTask()
	case eventbus.ConfirmToolEvent:
		a.confirmTool(ctx, e.Decision)
	case eventbus.TerminalDataEvent:
		// Processes are spawned without a stdin pipe; stdin forwarding is
		// part of the protocol but not wired to anything yet.
		a.logger.Debug("terminal data ignored", zap.Int("process", e.ProcessID))
	}
}

// sendMessage appends user text as a new turn, unless a tool call is
// waiting for external input, in which case the text is delivered as that
// call's result instead.
func (a *Agent) sendMessage(text string) {
	var msg models.Message
	if a.pendingToolID != "" {
		msg = models.ToolResultMessage(a.pendingToolID, text)
		a.pendingToolID = ""
	} else {
		msg = models.UserText(text)
	}
	attachEnvironment(&msg, a.cfg.Workspace)
	a.addMessage(msg)
	a.processing = true
	a.hasCompletion = false
	a.setState(models.StateWaitingResponse{})
}

// cancelTask is deliberately overloaded: while a turn is streaming it
// aborts the stream; when idle with an unfinished task it resumes
// processing instead.
func (a *Agent) cancelTask() {
	if a.processing {
		a.logger.Info("cancel current task")
		a.closeStream()
		if a.awaitingConfirm != nil {
			// The gated call is already in history and needs a result;
			// cancelling counts as a denial.
			call := *a.awaitingConfirm
			a.awaitingConfirm = nil
			msg := models.ToolResultMessage(call.ID, "The user denied this operation.")
			attachEnvironment(&msg, a.cfg.Workspace)
			a.addMessage(msg)
		}
		a.processing = false
		a.setState(models.StatePaused{})
		return
	}
	if !a.hasCompletion && len(a.messages) > 0 {
		a.logger.Info("resume unfinished task")
		a.processing = true
		a.setState(models.StateWaitingResponse{})
	}
}

func (a *Agent) newTask() {
	a.logger.Info("new task")
	a.closeStream()
	a.messages = nil
	a.processing = false
	a.hasCompletion = false
	a.pendingToolID = ""
	a.awaitingConfirm = nil
	a.tokensUsed = 0
	a.processes.StopAll()
	a.persistHistory()
	a.bus.SendOutput(eventbus.TaskResetEvent{})
	a.setState(models.StateWaitingUserPrompt{})
}

func (a *Agent) confirmTool(ctx context.Context, decision eventbus.ConfirmDecision) {
	if a.awaitingConfirm == nil {
		return
	}
	call := *a.awaitingConfirm
	a.awaitingConfirm = nil

	switch decision {
	case eventbus.ConfirmAlwaysApprove:
		a.alwaysApprove = true
		fallthrough
	case eventbus.ConfirmApprove:
		a.setState(models.StateToolCall{Call: call})
		a.runToolCall(ctx, call)
	case eventbus.ConfirmDeny:
		a.logger.Info("tool denied", zap.String("tool", call.Name))
		msg := models.ToolResultMessage(call.ID, "The user denied this operation.")
		attachEnvironment(&msg, a.cfg.Workspace)
		a.addMessage(msg)
		a.setState(models.StateThinking{})
	}
}

// step advances the turn by one stream item. It is a no-op unless a turn
// is active and no tool call is waiting for confirmation.
func (a *Agent) step(ctx context.Context) error {
	if !a.processing || a.awaitingConfirm != nil {
		return nil
	}

	if a.stream == nil {
		if len(a.messages) == 0 {
			return nil
		}
		stream, err := a.provider.OpenStream(ctx, a.messages)
		if err != nil {
			return err
		}
		a.stream = stream
		a.setState(models.StateThinking{})
	}

	item, err := a.stream.Next(ctx)
	if errors.Is(err, io.EOF) {
		a.finishStream()
		return nil
	}
	if err != nil {
		a.closeStream()
		return err
	}

	switch {
	case item.ToolCall != nil:
		a.handleToolCall(ctx, *item.ToolCall)
	case item.Text != "":
		a.handleTextDelta(item.Text)
	}
	return nil
}

// handleTextDelta forwards every delta to the UI: the first one appends a
// new assistant entry, the rest mutate it in place.
func (a *Agent) handleTextDelta(text string) {
	if !a.assistantOpen {
		a.assistantOpen = true
		a.assistantText = text
		a.addMessage(models.AssistantText(text))
		return
	}
	a.assistantText += text
	msg := models.AssistantText(a.assistantText)
	a.messages[len(a.messages)-1] = msg
	a.bus.SendOutput(eventbus.UpdateMessageEvent{Message: msg})
}

func (a *Agent) handleToolCall(ctx context.Context, call models.ToolCall) {
	a.logger.Info("tool call", zap.String("tool", call.Name), zap.String("id", call.ID))
	a.assistantOpen = false
	a.assistantText = ""
	a.addMessage(models.AssistantToolCall(call))

	if a.registry.NeedsConfirmation(call.Name) && !a.alwaysApprove {
		callCopy := call
		a.awaitingConfirm = &callCopy
		a.setState(models.StateToolCall{Call: call, NeedsConfirmation: true})
		a.bus.SendOutput(eventbus.ConfirmRequestEvent{Call: call})
		return
	}

	a.setState(models.StateToolCall{Call: call})
	a.runToolCall(ctx, call)
}

func (a *Agent) runToolCall(ctx context.Context, call models.ToolCall) {
	payload, err := a.registry.Execute(ctx, call)
	if err != nil {
		// Tool failures are recoverable by the model, never turn-fatal.
		a.logger.Error("tool failed", zap.String("tool", call.Name), zap.Error(err))
		payload = fmt.Sprintf("Tool call failed: %v", err)
	} else if payload == "" && call.Name != tools.CompletionToolName {
		// Empty-but-successful payload: the tool needs external input.
		// Remember the call id and pause; the next user message becomes
		// this call's result.
		a.logger.Info("tool awaits user input", zap.String("tool", call.Name))
		a.pendingToolID = call.ID
		a.processing = false
		a.setState(models.StateWaitingUserPrompt{})
		return
	} else {
		a.maybeHighlightFile(call)
	}

	msg := models.ToolResultMessage(call.ID, payload)
	attachEnvironment(&msg, a.cfg.Workspace)
	a.addMessage(msg)

	if call.Name == tools.CompletionToolName && err == nil {
		a.logger.Info("task completed")
		a.hasCompletion = true
	}
	a.setState(models.StateThinking{})
}

// maybeHighlightFile notifies the UI about the workspace path touched by
// file-oriented tools.
func (a *Agent) maybeHighlightFile(call models.ToolCall) {
	switch call.Name {
	case "read_file", "write_to_file", "list_files", "replace_in_file":
	default:
		return
	}
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(call.Arguments, &args); err != nil || args.Path == "" {
		return
	}
	a.bus.SendOutput(eventbus.HighlightFileEvent{
		Path:       args.Path,
		IsNewWrite: call.Name == "write_to_file",
	})
}

// finishStream runs at stream exhaustion: capture usage, persist history,
// and decide whether the turn ends or continues into a new stream.
func (a *Agent) finishStream() {
	usage := a.stream.Usage()
	if usage.TotalTokens > 0 {
		a.tokensUsed = usage.TotalTokens
	}
	a.closeStream()
	a.persistHistory()

	switch {
	case a.hasCompletion:
		a.pendingToolID = ""
		a.processing = false
		a.setState(models.StateCompleted{})
	case len(a.messages) > 0 && !a.messages[len(a.messages)-1].IsToolResult():
		// The turn ended on plain assistant text; nothing further to send.
		a.processing = false
		a.setState(models.StateWaitingUserPrompt{})
	default:
		// The last entry is a tool result: stay processing so the next
		// tick opens a continuation stream using it as the prompt.
		a.setState(models.StateWaitingResponse{})
	}
	a.emitStatus(true)
}

// handleStreamError surfaces a turn-fatal provider error. History up to
// the last persist point is intact.
func (a *Agent) handleStreamError(err error) {
	a.logger.Error("stream error", zap.Error(err))
	a.persistHistory()
	a.bus.SendOutput(eventbus.ErrorEvent{Message: err.Error()})
	a.processing = false
	a.hasCompletion = false
	a.setState(models.StateError{Message: err.Error()})
}

func (a *Agent) closeStream() {
	if a.stream != nil {
		a.stream.Close()
		a.stream = nil
	}
	a.assistantOpen = false
	a.assistantText = ""
}

// addMessage appends an entry to history and mirrors it to the UI.
func (a *Agent) addMessage(msg models.Message) {
	a.bus.SendOutput(eventbus.AddMessageEvent{Message: msg})
	a.messages = append(a.messages, msg)
}

func (a *Agent) setState(state models.AgentState) {
	a.state = state
}

// forwardCommandStatus drains registry deltas so background commands keep
// streaming to the UI even when no tool is actively polling them.
func (a *Agent) forwardCommandStatus() {
	changed := a.processes.Poll()
	if len(changed) > 0 {
		a.bus.SendOutput(eventbus.CommandStatusEvent{Commands: changed})
	}
}

func (a *Agent) emitStatus(force bool) {
	label := models.StateLabel(a.state)
	if !force && a.processing == a.lastProcessing && label == a.lastStateLabel {
		return
	}
	a.lastProcessing = a.processing
	a.lastStateLabel = label
	a.bus.SendOutput(eventbus.AgentStatusEvent{
		TokensUsed: a.tokensUsed,
		TokensMax:  a.cfg.MaxTokens,
		Processing: a.processing,
		State:      a.state,
	})
}

// persistHistory writes the conversation to disk. Write failures are
// logged rather than surfaced; the conversation itself stays usable.
func (a *Agent) persistHistory() {
	if err := SaveHistory(a.cfg.HistoryPath(), a.messages); err != nil {
		a.logger.Warn("failed to persist history", zap.Error(err))
	}
}
