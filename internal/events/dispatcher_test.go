package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventTicketSubmitted, func(_ context.Context, event Event) error {
		calls = append(calls, "first:"+event.TicketID)
		return errors.New("handler failure must not stop the rest")
	})
	d.Subscribe(EventTicketSubmitted, func(_ context.Context, event Event) error {
		calls = append(calls, "second:"+event.TicketID)
		return nil
	})
	d.Subscribe(EventTicketUpdated, func(_ context.Context, _ Event) error {
		calls = append(calls, "wrong type")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketSubmitted, TicketID: "REQ-2406001"})
	require.NoError(t, err)
	require.Equal(t, []string{"first:REQ-2406001", "second:REQ-2406001"}, calls)
}
