package services

import (
	"context"
	"testing"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSentMessage(t *testing.T, repo *fakeMessageRepo, id, waID string) {
	t.Helper()
	err := repo.Create(context.Background(), &message.Message{
		ID:        id,
		WaID:      waID,
		Direction: message.DirectionOutbound,
		Type:      "text",
		Timestamp: time.Now(),
		Status:    message.StatusSent,
	})
	require.NoError(t, err)
}

func waitForStatusEvents(bc *captureBroadcaster, want int, timeout time.Duration) []events.Event {
	deadline := time.After(timeout)
	for {
		got := bc.byType(events.EventTypeMessageStatusChanged)
		if len(got) >= want {
			return got
		}
		select {
		case <-deadline:
			return got
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSimulatorAdvancesDeliveredThenRead(t *testing.T) {
	repo := &fakeMessageRepo{}
	bc := &captureBroadcaster{}
	sim := NewDeliverySimulator(repo, bc, nil, 10*time.Millisecond, 30*time.Millisecond)

	seedSentMessage(t, repo, "local_1", "919937320320")
	sim.Schedule("local_1", "919937320320")

	got := waitForStatusEvents(bc, 2, 2*time.Second)
	require.Len(t, got, 2)

	first := got[0].Payload.(events.MessageStatusPayload)
	second := got[1].Payload.(events.MessageStatusPayload)
	assert.Equal(t, "delivered", first.Status)
	assert.Equal(t, "read", second.Status)

	stored, err := repo.GetByID(context.Background(), "local_1")
	require.NoError(t, err)
	assert.Equal(t, message.StatusRead, stored.Status)
}

func TestSimulatorCancelContactStopsTimers(t *testing.T) {
	repo := &fakeMessageRepo{}
	bc := &captureBroadcaster{}
	sim := NewDeliverySimulator(repo, bc, nil, 20*time.Millisecond, 40*time.Millisecond)

	seedSentMessage(t, repo, "local_1", "919937320320")
	sim.Schedule("local_1", "919937320320")
	sim.CancelContact("919937320320")

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, bc.byType(events.EventTypeMessageStatusChanged))

	stored, err := repo.GetByID(context.Background(), "local_1")
	require.NoError(t, err)
	assert.Equal(t, message.StatusSent, stored.Status)
}

func TestSimulatorFireAfterDeleteIsSilent(t *testing.T) {
	repo := &fakeMessageRepo{}
	bc := &captureBroadcaster{}
	sim := NewDeliverySimulator(repo, bc, nil, 10*time.Millisecond, 20*time.Millisecond)

	// Never stored: the timers find nothing to update.
	sim.Schedule("local_gone", "919937320320")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, bc.byType(events.EventTypeMessageStatusChanged))
}

func TestSimulatorDefaultsDelays(t *testing.T) {
	sim := NewDeliverySimulator(&fakeMessageRepo{}, &captureBroadcaster{}, nil, 0, 0)
	assert.Equal(t, 800*time.Millisecond, sim.deliveredAfter)
	assert.Equal(t, 2200*time.Millisecond, sim.readAfter)
}
