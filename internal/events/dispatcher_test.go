package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventPointsAwarded, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	dispatcher.Subscribe(EventPledgeSubmitted, func(_ context.Context, _ Event) error {
		t.Fatal("handler for a different event type must not fire")
		return nil
	})

	event := Event{
		ID:        "evt-1",
		Type:      EventPointsAwarded,
		UserID:    "student-1",
		Timestamp: time.Now(),
		Payload:   PointsAwardedPayload{Delta: 10, Balance: 110, Reason: "pledge"},
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
	assert.Equal(t, "student-1", received[0].UserID)
}

func TestDispatcherContinuesPastHandlerError(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []string
	dispatcher.Subscribe(EventRedemptionVerified, func(_ context.Context, _ Event) error {
		order = append(order, "first")
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventRedemptionVerified, func(_ context.Context, _ Event) error {
		order = append(order, "second")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRedemptionVerified})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventDonationVerified}))
}
