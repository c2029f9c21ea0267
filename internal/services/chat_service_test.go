package services

import (
	"context"
	"testing"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessage(t *testing.T, repo *fakeMessageRepo, id, waID, name string, ts time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &message.Message{
		ID:        id,
		WaID:      waID,
		Name:      name,
		Direction: message.DirectionInbound,
		Type:      "text",
		Text:      "msg " + id,
		Timestamp: ts,
		Status:    message.StatusSent,
	})
	require.NoError(t, err)
}

func TestListChatsLatestPerContact(t *testing.T) {
	repo := &fakeMessageRepo{}
	contacts := newFakeContactRepo()
	svc := NewChatService(repo, contacts)

	base := time.Now()
	seedMessage(t, repo, "1", "919937320320", "Ravi", base.Add(-3*time.Hour))
	seedMessage(t, repo, "2", "919937320320", "Ravi", base.Add(-time.Hour))
	seedMessage(t, repo, "3", "929967673820", "Neha", base.Add(-2*time.Hour))

	rows, err := svc.ListChats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest chat first, each carrying its latest message.
	assert.Equal(t, "919937320320", rows[0].WaID)
	assert.Equal(t, "2", rows[0].LastMessage.ID)
	assert.Equal(t, "929967673820", rows[1].WaID)
	assert.Equal(t, "3", rows[1].LastMessage.ID)
}

func TestListChatsTieBreaksOnWaID(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, newFakeContactRepo())

	ts := time.Now().Truncate(time.Second)
	seedMessage(t, repo, "b", "929967673820", "", ts)
	seedMessage(t, repo, "a", "919937320320", "", ts)

	rows, err := svc.ListChats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "919937320320", rows[0].WaID)
	assert.Equal(t, "929967673820", rows[1].WaID)
}

func TestListChatsDecoratesFromDirectory(t *testing.T) {
	repo := &fakeMessageRepo{}
	contacts := newFakeContactRepo()
	svc := NewChatService(repo, contacts)

	seedMessage(t, repo, "1", "919937320320", "Ravi", time.Now())
	_, _, err := contacts.Merge(context.Background(), contactWith("919937320320", "Ravi Kumar", "/uploads/a.png"))
	require.NoError(t, err)

	rows, err := svc.ListChats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ravi Kumar", rows[0].Name)
	assert.Equal(t, "/uploads/a.png", rows[0].ProfilePic)
}

func TestListChatsKeepsMessageNameWithoutDirectoryEntry(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, newFakeContactRepo())

	seedMessage(t, repo, "1", "919937320320", "Ravi", time.Now())

	rows, err := svc.ListChats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ravi", rows[0].Name)
	assert.Equal(t, "", rows[0].ProfilePic)
}
