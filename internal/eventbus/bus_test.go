package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hcengineering/huly-coder/internal/models"
)

func TestControlEventsDeliveredInOrder(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	bus.SendControl(SendMessageEvent{Text: "one"})
	bus.SendControl(SendMessageEvent{Text: "two"})
	bus.SendControl(CancelTaskEvent{})

	ev := <-bus.ControlEvents()
	require.Equal(t, "one", ev.(SendMessageEvent).Text)
	ev = <-bus.ControlEvents()
	require.Equal(t, "two", ev.(SendMessageEvent).Text)
	ev = <-bus.ControlEvents()
	require.IsType(t, CancelTaskEvent{}, ev)
}

func TestOutputEventsDeliveredInOrder(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	bus.SendOutput(AddMessageEvent{Message: models.UserText("hi")})
	bus.SendOutput(TaskResetEvent{})

	ev := <-bus.OutputEvents()
	require.IsType(t, AddMessageEvent{}, ev)
	ev = <-bus.OutputEvents()
	require.IsType(t, TaskResetEvent{}, ev)
}

func TestSendDoesNotBlockWhenFull(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	// Nobody is draining; sends beyond the buffer must drop, not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < busBufferSize*2; i++ {
			bus.SendOutput(TaskResetEvent{})
		}
	}()
	<-done
}

func TestConfirmDecisions(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	for _, decision := range []ConfirmDecision{ConfirmApprove, ConfirmDeny, ConfirmAlwaysApprove} {
		bus.SendControl(ConfirmToolEvent{Decision: decision})
		ev := <-bus.ControlEvents()
		require.Equal(t, decision, ev.(ConfirmToolEvent).Decision)
	}
}

func TestCloseStopsChannels(t *testing.T) {
	bus := NewEventBus()
	bus.Close()

	_, ok := <-bus.ControlEvents()
	require.False(t, ok)
	_, ok = <-bus.OutputEvents()
	require.False(t, ok)
}
