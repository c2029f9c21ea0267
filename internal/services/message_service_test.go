package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture() (*MessageService, *fakeMessageRepo, *fakeContactRepo, *captureBroadcaster) {
	repo := &fakeMessageRepo{}
	contacts := newFakeContactRepo()
	bc := &captureBroadcaster{}
	directory := NewContactService(contacts, &fakeMediaStore{}, bc, nil)
	svc := NewMessageService(repo, directory, bc, nil, nil)
	return svc, repo, contacts, bc
}

func TestSendStoresOutboundSentMessage(t *testing.T) {
	svc, repo, _, bc := newMessageFixture()

	msg, err := svc.Send(context.Background(), "919937320320", "hello", "Ravi", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(msg.ID, "local_"))
	assert.Equal(t, message.DirectionOutbound, msg.Direction)
	assert.Equal(t, message.StatusSent, msg.Status)
	assert.Equal(t, "text", msg.Type)

	stored, err := repo.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Text)

	created := bc.byType(events.EventTypeMessageCreated)
	require.Len(t, created, 1)
}

func TestSendRecordsContactName(t *testing.T) {
	svc, _, contacts, _ := newMessageFixture()

	_, err := svc.Send(context.Background(), "919937320320", "hello", "Ravi", "")
	require.NoError(t, err)

	c, err := contacts.Get(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)
}

func TestSendRejectsEmptyInput(t *testing.T) {
	svc, _, _, _ := newMessageFixture()

	_, err := svc.Send(context.Background(), "", "hello", "", "")
	assert.ErrorIs(t, err, whatsapp_errors.ErrInvalidInput)

	_, err = svc.Send(context.Background(), "919937320320", "", "", "")
	assert.ErrorIs(t, err, whatsapp_errors.ErrInvalidInput)
}

func TestInsertKeepsExplicitStatus(t *testing.T) {
	svc, repo, _, _ := newMessageFixture()

	msg, err := svc.Insert(context.Background(), "919937320320", "hi", "", "", message.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, message.StatusDelivered, msg.Status)

	stored, err := repo.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, message.StatusDelivered, stored.Status)
}

func TestApplyExternalIsIdempotent(t *testing.T) {
	svc, repo, _, bc := newMessageFixture()

	msg := message.Message{
		ID:        "wamid.abc",
		WaID:      "919937320320",
		Name:      "Ravi",
		Direction: message.DirectionInbound,
		Type:      "text",
		Text:      "first",
		Timestamp: time.Now(),
		Status:    message.StatusSent,
	}

	inserted, err := svc.ApplyExternal(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, inserted)

	// A replay with different content must not clobber the original.
	replay := msg
	replay.Text = "second"
	inserted, err = svc.ApplyExternal(context.Background(), replay)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := repo.GetByID(context.Background(), "wamid.abc")
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Text)

	// Only the first apply broadcast anything.
	assert.Len(t, bc.byType(events.EventTypeMessageCreated), 1)
}

func TestApplyExternalRejectsIncomplete(t *testing.T) {
	svc, _, _, _ := newMessageFixture()

	_, err := svc.ApplyExternal(context.Background(), message.Message{WaID: "1"})
	assert.ErrorIs(t, err, whatsapp_errors.ErrInvalidInput)
}

func TestApplyStatusUpdateForwardOnly(t *testing.T) {
	svc, _, _, bc := newMessageFixture()

	msg := message.Message{
		ID:        "wamid.abc",
		MetaMsgID: "meta.abc",
		WaID:      "919937320320",
		Direction: message.DirectionInbound,
		Type:      "text",
		Timestamp: time.Now(),
		Status:    message.StatusSent,
	}
	_, err := svc.ApplyExternal(context.Background(), msg)
	require.NoError(t, err)

	modified, err := svc.ApplyStatusUpdate(context.Background(), "wamid.abc", message.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	// Backward transition matches nothing and emits nothing.
	modified, err = svc.ApplyStatusUpdate(context.Background(), "wamid.abc", message.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)

	// Stale delivered after read likewise.
	_, err = svc.ApplyStatusUpdate(context.Background(), "wamid.abc", message.StatusRead)
	require.NoError(t, err)
	modified, err = svc.ApplyStatusUpdate(context.Background(), "wamid.abc", message.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)

	changes := bc.byType(events.EventTypeMessageStatusChanged)
	assert.Len(t, changes, 2)
}

func TestApplyStatusUpdateByMetaMsgID(t *testing.T) {
	svc, repo, _, _ := newMessageFixture()

	msg := message.Message{
		ID:        "wamid.abc",
		MetaMsgID: "meta.abc",
		WaID:      "919937320320",
		Direction: message.DirectionInbound,
		Type:      "text",
		Timestamp: time.Now(),
		Status:    message.StatusSent,
	}
	_, err := svc.ApplyExternal(context.Background(), msg)
	require.NoError(t, err)

	modified, err := svc.ApplyStatusUpdate(context.Background(), "meta.abc", message.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	stored, err := repo.GetByID(context.Background(), "wamid.abc")
	require.NoError(t, err)
	assert.Equal(t, message.StatusRead, stored.Status)
}

func TestApplyStatusUpdateUnknownIDIsNoop(t *testing.T) {
	svc, _, _, bc := newMessageFixture()

	modified, err := svc.ApplyStatusUpdate(context.Background(), "missing", message.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, int64(0), modified)
	assert.Empty(t, bc.byType(events.EventTypeMessageStatusChanged))
}

func TestGetConversationDecoratesFromDirectory(t *testing.T) {
	svc, _, contacts, _ := newMessageFixture()

	_, err := svc.Send(context.Background(), "919937320320", "hello", "Ravi", "")
	require.NoError(t, err)

	_, _, err = contacts.Merge(context.Background(), contactWith("919937320320", "Ravi Kumar", "/uploads/a.png"))
	require.NoError(t, err)

	conv, err := svc.GetConversation(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, "919937320320", conv.WaID)
	assert.Equal(t, "Ravi Kumar", conv.Name)
	assert.Equal(t, "/uploads/a.png", conv.ProfilePic)
	assert.Len(t, conv.Messages, 1)
}

func TestDeleteChatBroadcastsEvenWhenEmpty(t *testing.T) {
	svc, _, _, bc := newMessageFixture()

	deleted, err := svc.DeleteChat(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.Len(t, bc.byType(events.EventTypeChatDeleted), 1)
}

func TestDeleteChatRemovesMessages(t *testing.T) {
	svc, repo, _, _ := newMessageFixture()

	_, err := svc.Send(context.Background(), "919937320320", "one", "", "")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "919937320320", "two", "", "")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), "929967673820", "other", "", "")
	require.NoError(t, err)

	deleted, err := svc.DeleteChat(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.ListByContact(context.Background(), "929967673820")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
