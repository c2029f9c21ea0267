package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/status"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/storage"
	whatsapp_errors "github.com/badalku27/WhatsApp-Web-Clone/pkg/errors"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// StatusService manages the ephemeral status feed. Items expire 24h
// after posting; expiry is enforced by filtering at read time, never
// by a background deletion job.
type StatusService struct {
	repo        repository.StatusRepository
	directory   *ContactService
	media       storage.MediaStore
	broadcaster events.Broadcaster
	logger      *logger.Logger
	now         func() time.Time
}

func NewStatusService(repo repository.StatusRepository, directory *ContactService, media storage.MediaStore, broadcaster events.Broadcaster, l *logger.Logger) *StatusService {
	return &StatusService{
		repo:        repo,
		directory:   directory,
		media:       media,
		broadcaster: broadcaster,
		logger:      l,
		now:         time.Now,
	}
}

// Post appends one item to the contact's collection, creating the
// collection on first post, and returns the updated collection.
func (s *StatusService) Post(ctx context.Context, waID, name string, kind status.Kind, text, mediaURL string) (status.Collection, error) {
	if waID == "" {
		return status.Collection{}, whatsapp_errors.ErrInvalidInput
	}
	if kind == "" {
		kind = status.KindText
	}

	now := s.now()
	item := status.Item{
		ID:        "status_" + uuid.NewString(),
		Kind:      kind,
		Text:      text,
		MediaURL:  mediaURL,
		Timestamp: now,
		ExpiresAt: now.Add(status.TTL),
	}
	if err := item.Validate(); err != nil {
		return status.Collection{}, err
	}

	doc, err := s.repo.PushItem(ctx, waID, name, item)
	if err != nil {
		return status.Collection{}, err
	}

	if err := s.directory.MergeUpsert(ctx, waID, name, ""); err != nil && s.logger != nil {
		s.logger.Warnf("directory upsert for %s failed: %s", waID, err)
	}

	evt := events.New(events.EventTypeStatusItemCreated, events.StatusItemPayload{
		WaID: waID,
		Name: doc.Name,
		Item: item,
	})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast status.item_created for %s failed: %s", waID, err)
	}
	return doc, nil
}

// PostUpload stores an uploaded media file and posts it as an image or
// video item. Anything that is not an image is treated as video,
// matching the client's two media tabs.
func (s *StatusService) PostUpload(ctx context.Context, waID, name string, kind status.Kind, filename string, file io.Reader) (status.Collection, error) {
	if waID == "" {
		return status.Collection{}, whatsapp_errors.ErrInvalidInput
	}
	if file == nil {
		return status.Collection{}, whatsapp_errors.ErrNotUploaded
	}

	if kind != status.KindImage {
		kind = status.KindVideo
	}
	mediaURL, err := s.media.Save(ctx, storage.MediaFilename("status", filename), file)
	if err != nil {
		return status.Collection{}, err
	}
	return s.Post(ctx, waID, name, kind, "", mediaURL)
}

// ListVisible returns all collections ordered by lastUpdated
// descending, items filtered to the not-yet-expired, collections with
// nothing left to show omitted, avatars attached from the directory.
func (s *StatusService) ListVisible(ctx context.Context) ([]status.Collection, error) {
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	visible := make([]status.Collection, 0, len(docs))
	waIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		items := doc.VisibleItems(now)
		if len(items) == 0 {
			continue
		}
		doc.Items = items
		visible = append(visible, doc)
		waIDs = append(waIDs, doc.WaID)
	}

	directory, err := s.directory.GetMany(ctx, waIDs)
	if err != nil {
		return nil, err
	}
	for i := range visible {
		if c, ok := directory[visible[i].WaID]; ok {
			visible[i].ProfilePic = c.ProfilePic
		}
	}
	return visible, nil
}

// DeleteItem removes one item. The collection is kept even when it
// becomes empty; the read-side filter hides it. Deleting from an
// unknown collection is a no-op success.
func (s *StatusService) DeleteItem(ctx context.Context, waID, itemID string) (status.Collection, error) {
	if waID == "" || itemID == "" {
		return status.Collection{}, whatsapp_errors.ErrInvalidInput
	}
	doc, err := s.repo.PullItem(ctx, waID, itemID)
	if err != nil && !errors.Is(err, whatsapp_errors.ErrNotFound) {
		return status.Collection{}, err
	}

	evt := events.New(events.EventTypeStatusItemDeleted, events.StatusItemDeletedPayload{
		WaID: waID,
		ID:   itemID,
	})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast status.item_deleted for %s failed: %s", waID, err)
	}
	return doc, nil
}

// DeleteCollection removes the contact's whole collection.
func (s *StatusService) DeleteCollection(ctx context.Context, waID string) (int64, error) {
	if waID == "" {
		return 0, whatsapp_errors.ErrInvalidInput
	}
	deleted, err := s.repo.DeleteCollection(ctx, waID)
	if err != nil {
		return 0, err
	}

	evt := events.New(events.EventTypeStatusCollectionDeleted, events.StatusCollectionDeletedPayload{WaID: waID})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast status.collection_deleted for %s failed: %s", waID, err)
	}
	return deleted, nil
}
