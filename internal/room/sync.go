package room

import (
	"context"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/metrics"
	"github.com/dukerupert/parlor/internal/model"
	"github.com/dukerupert/parlor/internal/store"
)

// Sanitizer turns raw user input into HTML fit for storage.
type Sanitizer interface {
	Render(markdown string) (string, error)
}

// Synchronizer hands each session the messages it has not received yet.
//
// Delivery is at least once: if the checkpoint write after a read fails or
// two polls race, the same messages can be sent again.
type Synchronizer struct {
	messages    *store.MessageStore
	checkpoints *store.CheckpointStore
	sanitizer   Sanitizer
	clock       clock.Clock
}

func NewSynchronizer(messages *store.MessageStore, checkpoints *store.CheckpointStore, sanitizer Sanitizer, clk clock.Clock) *Synchronizer {
	return &Synchronizer{
		messages:    messages,
		checkpoints: checkpoints,
		sanitizer:   sanitizer,
		clock:       clk,
	}
}

// Poll is GetUpdates at the current time.
func (s *Synchronizer) Poll(ctx context.Context, sessionID string, room *model.Room) (*model.Updates, error) {
	return s.GetUpdates(ctx, sessionID, room, clock.Millis(s.clock))
}

// GetUpdates returns the room's messages with checkpoint < timestamp <= now
// and moves the session's checkpoint to now. A session that never polled
// the room starts from 0.
//
// ResetRequired is set when the checkpoint is not after the room's
// creation: the room was recreated since the client last synced, and
// whatever it cached belongs to the old room.
func (s *Synchronizer) GetUpdates(ctx context.Context, sessionID string, room *model.Room, now int64) (*model.Updates, error) {
	since, err := s.checkpoint(ctx, sessionID, room.Name)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListBetween(ctx, room.ID, since, now)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}

	if err := s.checkpoints.Save(ctx, sessionID, room.Name, now); err != nil {
		return nil, err
	}

	reset := since <= room.CreatedAt
	if reset {
		metrics.UpdatePolls.WithLabelValues("true").Inc()
	} else {
		metrics.UpdatePolls.WithLabelValues("false").Inc()
	}
	metrics.MessagesDelivered.Add(float64(len(messages)))

	return &model.Updates{ResetRequired: reset, Messages: messages}, nil
}

// PostResult is the stored message plus whether the poster's view of the
// room was stale when they posted.
type PostResult struct {
	Message        *model.Message
	Desynchronized bool
}

// PostMessage validates, sanitizes and stores a message from sessionID.
// replyTo, when set, must name a message in the same room. A stale poster
// is only flagged in the result, never refused.
func (s *Synchronizer) PostMessage(ctx context.Context, sessionID string, room *model.Room, content string, replyTo *int64) (*PostResult, error) {
	if err := ValidateMessage(content); err != nil {
		return nil, err
	}

	if replyTo != nil {
		parent, err := s.messages.GetByID(ctx, *replyTo)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.RoomID != room.ID {
			return nil, invalid("The message you replied to does not exist.")
		}
	}

	html, err := s.sanitizer.Render(content)
	if err != nil {
		return nil, err
	}

	since, err := s.checkpoint(ctx, sessionID, room.Name)
	if err != nil {
		return nil, err
	}

	author := sessionID
	msg, err := s.messages.Create(ctx, room.ID, html, clock.Millis(s.clock), &author, replyTo)
	if err != nil {
		return nil, err
	}
	metrics.MessagesPosted.Inc()

	return &PostResult{Message: msg, Desynchronized: since <= room.CreatedAt}, nil
}

func (s *Synchronizer) checkpoint(ctx context.Context, sessionID, roomName string) (int64, error) {
	cp, err := s.checkpoints.Get(ctx, sessionID, roomName)
	if err != nil {
		return 0, err
	}
	if cp == nil {
		return 0, nil
	}
	return cp.Timestamp, nil
}
