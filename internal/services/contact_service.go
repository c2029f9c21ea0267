package services

import (
	"context"
	"errors"
	"io"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/contact"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/storage"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// ContactService maintains the contact directory: display names and
// avatars observed opportunistically across the rest of the API.
type ContactService struct {
	repo        repository.ContactRepository
	media       storage.MediaStore
	broadcaster events.Broadcaster
	logger      *logger.Logger
}

func NewContactService(repo repository.ContactRepository, media storage.MediaStore, broadcaster events.Broadcaster, l *logger.Logger) *ContactService {
	return &ContactService{repo: repo, media: media, broadcaster: broadcaster, logger: l}
}

// MergeUpsert records an observed name/avatar. Empty fields are
// skipped, so an avatar-only write never clobbers a stored name. The
// contact.updated event fires only when a field actually changed.
func (s *ContactService) MergeUpsert(ctx context.Context, waID, name, profilePic string) error {
	if waID == "" || (name == "" && profilePic == "") {
		return nil
	}
	after, changed, err := s.repo.Merge(ctx, contact.Contact{WaID: waID, Name: name, ProfilePic: profilePic})
	if err != nil {
		return err
	}
	if changed {
		s.publishUpdated(ctx, after)
	}
	return nil
}

func (s *ContactService) Get(ctx context.Context, waID string) (contact.Contact, error) {
	return s.repo.Get(ctx, waID)
}

func (s *ContactService) GetMany(ctx context.Context, waIDs []string) (map[string]contact.Contact, error) {
	return s.repo.GetMany(ctx, waIDs)
}

// SetProfilePicURL points the avatar at an externally hosted image.
func (s *ContactService) SetProfilePicURL(ctx context.Context, waID, name, profilePic string) (contact.Contact, error) {
	if waID == "" || profilePic == "" {
		return contact.Contact{}, whatsapp_errors.ErrInvalidInput
	}
	c, err := s.repo.SetAvatar(ctx, waID, name, profilePic)
	if err != nil {
		return contact.Contact{}, err
	}
	s.publishUpdated(ctx, c)
	return c, nil
}

// SetProfilePicUpload stores an uploaded avatar image and points the
// directory entry at it.
func (s *ContactService) SetProfilePicUpload(ctx context.Context, waID, name, filename string, file io.Reader) (contact.Contact, error) {
	if waID == "" {
		return contact.Contact{}, whatsapp_errors.ErrInvalidInput
	}
	if file == nil {
		return contact.Contact{}, whatsapp_errors.ErrNotUploaded
	}
	url, err := s.media.Save(ctx, storage.MediaFilename("profile", filename), file)
	if err != nil {
		return contact.Contact{}, err
	}
	return s.SetProfilePicURL(ctx, waID, name, url)
}

// ClearProfilePic blanks the avatar. Clearing an unknown contact is a
// no-op success; clients still get the event so they drop any cached
// avatar.
func (s *ContactService) ClearProfilePic(ctx context.Context, waID string) error {
	if waID == "" {
		return whatsapp_errors.ErrInvalidInput
	}
	c, err := s.repo.ClearAvatar(ctx, waID)
	if err != nil {
		if errors.Is(err, whatsapp_errors.ErrNotFound) {
			s.publishUpdated(ctx, contact.Contact{WaID: waID})
			return nil
		}
		return err
	}
	s.publishUpdated(ctx, c)
	return nil
}

func (s *ContactService) publishUpdated(ctx context.Context, c contact.Contact) {
	evt := events.New(events.EventTypeContactUpdated, events.ContactUpdatedPayload{
		WaID:       c.WaID,
		Name:       c.Name,
		ProfilePic: c.ProfilePic,
	})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast contact.updated for %s failed: %s", c.WaID, err)
	}
}
