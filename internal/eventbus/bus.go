package eventbus

import (
	"errors"
	"time"

	"github.com/hcengineering/huly-coder/internal/models"
)

// ControlEvent represents events sent from UI to the agent
type ControlEvent interface {
	ControlEvent()
}

// OutputEvent represents events sent from the agent to UI
type OutputEvent interface {
	OutputEvent()
}

// SendMessageEvent - UI submits user text. The agent either appends it as a
// new user turn or delivers it as the result of a pending tool call.
type SendMessageEvent struct {
	Text string
}

func (e SendMessageEvent) ControlEvent() {}

// TerminalDataEvent - intended stdin forwarding to a running process.
// Processes are spawned without a stdin pipe, so this is currently a no-op.
type TerminalDataEvent struct {
	ProcessID int
	Data      []byte
}

func (e TerminalDataEvent) ControlEvent() {}

// ConfirmDecision is the user's answer to a pending tool confirmation.
type ConfirmDecision int

const (
	ConfirmApprove ConfirmDecision = iota
	ConfirmDeny
	ConfirmAlwaysApprove
)

// ConfirmToolEvent - UI answers a tool call that paused for confirmation.
type ConfirmToolEvent struct {
	Decision ConfirmDecision
}

func (e ConfirmToolEvent) ControlEvent() {}

// CancelTaskEvent - aborts the in-flight stream when a turn is active;
// resumes an unfinished task when idle.
type CancelTaskEvent struct{}

func (e CancelTaskEvent) ControlEvent() {}

// NewTaskEvent - clears history and resets the agent.
type NewTaskEvent struct{}

func (e NewTaskEvent) ControlEvent() {}

// AddMessageEvent - a new conversation entry was appended.
type AddMessageEvent struct {
	Message models.Message
}

func (e AddMessageEvent) OutputEvent() {}

// UpdateMessageEvent - the most recent conversation entry was mutated in
// place (streaming assistant text); replaces the last displayed entry.
type UpdateMessageEvent struct {
	Message models.Message
}

func (e UpdateMessageEvent) OutputEvent() {}

// TaskResetEvent - the agent started a fresh task with empty history.
type TaskResetEvent struct{}

func (e TaskResetEvent) OutputEvent() {}

// CommandStatusEvent - background command output/exit deltas.
type CommandStatusEvent struct {
	Commands []models.CommandStatus
}

func (e CommandStatusEvent) OutputEvent() {}

// AgentStatusEvent - token accounting plus the current agent state.
type AgentStatusEvent struct {
	TokensUsed int
	TokensMax  int
	Processing bool
	State      models.AgentState
}

func (e AgentStatusEvent) OutputEvent() {}

// HighlightFileEvent - a tool touched the named workspace path.
type HighlightFileEvent struct {
	Path       string
	IsNewWrite bool
}

func (e HighlightFileEvent) OutputEvent() {}

// ConfirmRequestEvent - the agent paused a tool call pending user approval.
type ConfirmRequestEvent struct {
	Call models.ToolCall
}

func (e ConfirmRequestEvent) OutputEvent() {}

// ErrorEvent - a turn-fatal provider/stream error.
type ErrorEvent struct {
	Message string
}

func (e ErrorEvent) OutputEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker implements circuit breaker pattern
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.failureCount++
	cb.lastFailureTime = time.Now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// EventBus handles communication between UI and the agent with circuit breaker
type EventBus struct {
	control        chan ControlEvent
	output         chan OutputEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

// busBufferSize bounds each direction of the bus. Senders never block:
// events beyond the buffer are dropped and reported.
const busBufferSize = 256

func NewEventBus() *EventBus {
	return &EventBus{
		control:        make(chan ControlEvent, busBufferSize),
		output:         make(chan OutputEvent, busBufferSize),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	busError := EventBusError{
		Operation: operation,
		Err:       err,
		Timestamp: time.Now(),
	}

	eb.circuitBreaker.RecordFailure()

	if eb.errorCallback != nil {
		eb.errorCallback(busError)
	}
}

// SendControl delivers a control event to the agent without blocking.
func (eb *EventBus) SendControl(event ControlEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendControl", err)
		return err
	}

	select {
	case eb.control <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("control channel is full")
		eb.reportError("SendControl", err)
		return err
	}
}

// SendOutput delivers an output event to the UI without blocking.
func (eb *EventBus) SendOutput(event OutputEvent) error {
	if eb.circuitBreaker.IsOpen() {
		err := errors.New("circuit breaker is open")
		eb.reportError("SendOutput", err)
		return err
	}

	select {
	case eb.output <- event:
		eb.circuitBreaker.RecordSuccess()
		return nil
	default:
		err := errors.New("output channel is full")
		eb.reportError("SendOutput", err)
		return err
	}
}

func (eb *EventBus) ControlEvents() <-chan ControlEvent {
	return eb.control
}

func (eb *EventBus) OutputEvents() <-chan OutputEvent {
	return eb.output
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.state
}

func (eb *EventBus) Close() {
	close(eb.control)
	close(eb.output)
}
