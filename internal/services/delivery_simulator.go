package services

import (
	"context"
	"sync"
	"time"

	"github.com/badalku27/WhatsApp-Web-Clone/internal/domain/message"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/events"
	"github.com/badalku27/WhatsApp-Web-Clone/internal/repository"
	"github.com/badalku27/WhatsApp-Web-Clone/pkg/logger"
)

// DeliverySimulator fakes the delivery network for locally-sent
// messages: each send is followed by a delayed transition to
// delivered, then to read. Timers are tracked per message so deleting
// a chat cancels its pending transitions; a timer that fires anyway
// finds no matching row and silently no-ops.
type DeliverySimulator struct {
	repo        repository.MessageRepository
	broadcaster events.Broadcaster
	logger      *logger.Logger

	deliveredAfter time.Duration
	readAfter      time.Duration

	mu        sync.Mutex
	pending   map[string][]*time.Timer
	byContact map[string]map[string]struct{}
}

func NewDeliverySimulator(repo repository.MessageRepository, broadcaster events.Broadcaster, l *logger.Logger, deliveredAfter, readAfter time.Duration) *DeliverySimulator {
	if deliveredAfter <= 0 {
		deliveredAfter = 800 * time.Millisecond
	}
	if readAfter <= 0 {
		readAfter = 2200 * time.Millisecond
	}
	return &DeliverySimulator{
		repo:           repo,
		broadcaster:    broadcaster,
		logger:         l,
		deliveredAfter: deliveredAfter,
		readAfter:      readAfter,
		pending:        make(map[string][]*time.Timer),
		byContact:      make(map[string]map[string]struct{}),
	}
}

// Schedule queues the delivered and read transitions for one message.
func (s *DeliverySimulator) Schedule(msgID, waID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivered := time.AfterFunc(s.deliveredAfter, func() {
		s.fire(msgID, message.StatusDelivered, false)
	})
	read := time.AfterFunc(s.readAfter, func() {
		s.fire(msgID, message.StatusRead, true)
	})

	s.pending[msgID] = []*time.Timer{delivered, read}
	if s.byContact[waID] == nil {
		s.byContact[waID] = make(map[string]struct{})
	}
	s.byContact[waID][msgID] = struct{}{}
}

// Cancel stops the pending transitions for one message.
func (s *DeliverySimulator) Cancel(msgID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(msgID)
}

// CancelContact stops all pending transitions for a contact's
// messages, called when the chat is deleted.
func (s *DeliverySimulator) CancelContact(waID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for msgID := range s.byContact[waID] {
		s.cancelLocked(msgID)
	}
	delete(s.byContact, waID)
}

func (s *DeliverySimulator) cancelLocked(msgID string) {
	for _, t := range s.pending[msgID] {
		t.Stop()
	}
	delete(s.pending, msgID)
}

// fire applies one simulated transition. Failures are swallowed: the
// message may have been deleted meanwhile, and a background timer has
// nobody to report to.
func (s *DeliverySimulator) fire(msgID string, next message.Status, terminal bool) {
	if terminal {
		s.mu.Lock()
		delete(s.pending, msgID)
		s.mu.Unlock()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	modified, err := s.repo.UpdateStatus(ctx, msgID, next)
	if err != nil {
		if s.logger != nil {
			s.logger.Warnf("simulated %s transition for %s failed: %s", next, msgID, err)
		}
		return
	}
	if modified == 0 {
		return
	}

	evt := events.New(events.EventTypeMessageStatusChanged, events.MessageStatusPayload{
		ID:     msgID,
		Status: string(next),
	})
	if err := s.broadcaster.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warnf("broadcast simulated %s for %s failed: %s", next, msgID, err)
	}
}
