package services

import (
	"context"
	"strings"
	"testing"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactFixture() (*ContactService, *fakeContactRepo, *captureBroadcaster) {
	repo := newFakeContactRepo()
	bc := &captureBroadcaster{}
	svc := NewContactService(repo, &fakeMediaStore{}, bc, nil)
	return svc, repo, bc
}

func TestMergeUpsertSkipsEmptyObservation(t *testing.T) {
	svc, repo, bc := newContactFixture()

	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "", ""))

	_, err := repo.Get(context.Background(), "919937320320")
	assert.ErrorIs(t, err, whatsapp_errors.ErrNotFound)
	assert.Empty(t, bc.byType(events.EventTypeContactUpdated))
}

func TestMergeUpsertPublishesOnlyOnChange(t *testing.T) {
	svc, _, bc := newContactFixture()

	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "Ravi", ""))
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 1)

	// Same observation again: nothing changed, nothing published.
	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "Ravi", ""))
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 1)

	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "", "/uploads/a.png"))
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 2)
}

func TestMergeUpsertNeverClobbersName(t *testing.T) {
	svc, repo, _ := newContactFixture()

	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "Ravi", ""))
	require.NoError(t, svc.MergeUpsert(context.Background(), "919937320320", "", "/uploads/a.png"))

	c, err := repo.Get(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)
	assert.Equal(t, "/uploads/a.png", c.ProfilePic)
}

func TestSetProfilePicURL(t *testing.T) {
	svc, _, bc := newContactFixture()

	c, err := svc.SetProfilePicURL(context.Background(), "919937320320", "Ravi", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", c.ProfilePic)
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 1)

	_, err = svc.SetProfilePicURL(context.Background(), "919937320320", "", "")
	assert.ErrorIs(t, err, whatsapp_errors.ErrInvalidInput)
}

func TestSetProfilePicUpload(t *testing.T) {
	svc, repo, _ := newContactFixture()

	c, err := svc.SetProfilePicUpload(context.Background(), "919937320320", "Ravi", "me.png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.ProfilePic, "/uploads/profile_"))
	assert.True(t, strings.HasSuffix(c.ProfilePic, ".png"))

	stored, err := repo.Get(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, c.ProfilePic, stored.ProfilePic)
}

func TestClearProfilePic(t *testing.T) {
	svc, repo, bc := newContactFixture()

	_, err := svc.SetProfilePicURL(context.Background(), "919937320320", "Ravi", "/uploads/a.png")
	require.NoError(t, err)

	require.NoError(t, svc.ClearProfilePic(context.Background(), "919937320320"))

	c, err := repo.Get(context.Background(), "919937320320")
	require.NoError(t, err)
	assert.Equal(t, "", c.ProfilePic)
	assert.Equal(t, "Ravi", c.Name)
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 2)
}

func TestClearProfilePicUnknownContact(t *testing.T) {
	svc, _, bc := newContactFixture()

	// Clearing a contact that was never stored still succeeds and
	// still tells clients to drop any cached avatar.
	require.NoError(t, svc.ClearProfilePic(context.Background(), "919937320320"))
	assert.Len(t, bc.byType(events.EventTypeContactUpdated), 1)
}
