package models

// AgentState is a closed set of orchestrator states. Exactly one value is
// active at a time; the orchestrator owns it and the UI only ever sees
// copies delivered through status events.
type AgentState interface {
	agentState()
}

// StatePaused - no task is running and nothing is pending.
type StatePaused struct{}

// StateWaitingResponse - a request is about to be sent or a continuation
// stream is about to open.
type StateWaitingResponse struct{}

// StateThinking - a model stream is open and items are being consumed.
type StateThinking struct{}

// StateWaitingUserPrompt - the agent needs user input before it can proceed.
type StateWaitingUserPrompt struct{}

// StateError - the last turn failed; Message is user-visible.
type StateError struct {
	Message string
}

// StateCompleted - the model invoked the completion tool.
type StateCompleted struct{}

// StateToolCall - a tool call is being executed, or is waiting for user
// confirmation when NeedsConfirmation is set.
type StateToolCall struct {
	Call              ToolCall
	NeedsConfirmation bool
}

func (StatePaused) agentState()            {}
func (StateWaitingResponse) agentState()   {}
func (StateThinking) agentState()          {}
func (StateWaitingUserPrompt) agentState() {}
func (StateError) agentState()             {}
func (StateCompleted) agentState()         {}
func (StateToolCall) agentState()          {}

// IsPausePoint reports whether the state accepts user input instead of
// advancing the stream. A tool call only pauses while it still needs
// confirmation.
func IsPausePoint(s AgentState) bool {
	switch st := s.(type) {
	case StatePaused, StateWaitingUserPrompt, StateError, StateCompleted:
		return true
	case StateToolCall:
		return st.NeedsConfirmation
	default:
		return false
	}
}

// StateLabel returns a short human-readable name for a state.
func StateLabel(s AgentState) string {
	switch st := s.(type) {
	case StatePaused:
		return "paused"
	case StateWaitingResponse:
		return "waiting"
	case StateThinking:
		return "thinking"
	case StateWaitingUserPrompt:
		return "needs input"
	case StateError:
		return "error: " + st.Message
	case StateCompleted:
		return "completed"
	case StateToolCall:
		if st.NeedsConfirmation {
			return "confirm: " + st.Call.Name
		}
		return "tool: " + st.Call.Name
	default:
		return "unknown"
	}
}
