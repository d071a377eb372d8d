package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifyhub/pkg/async"
	"github.com/dmitrymomot/notifyhub/pkg/broadcast"
	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

// Broadcaster turns one business event into durable rows for every eligible
// recipient plus a real-time publish per row. Persistence always completes
// before the first publish, so a pushed event is always queryable.
type Broadcaster struct {
	storage         Storage
	recipients      RecipientSource
	publisher       broadcast.Publisher
	log             *slog.Logger
	dispatchTimeout time.Duration
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithLogger sets the logger for the Broadcaster.
func WithLogger(log *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		if log != nil {
			b.log = log
		}
	}
}

// WithDispatchTimeout bounds the detached store-and-publish work started by
// Dispatch. Default is 30 seconds.
func WithDispatchTimeout(d time.Duration) BroadcasterOption {
	return func(b *Broadcaster) {
		if d > 0 {
			b.dispatchTimeout = d
		}
	}
}

// NewBroadcaster creates a broadcast service over the given storage,
// recipient source, and publisher.
func NewBroadcaster(storage Storage, recipients RecipientSource, publisher broadcast.Publisher, opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		storage:         storage,
		recipients:      recipients,
		publisher:       publisher,
		log:             slog.Default(),
		dispatchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateForAllRecipients resolves the recipients holding role, persists one
// row per recipient in a single bulk create, and publishes each returned row
// to that recipient's live connections. An empty recipient set is a no-op,
// not an error. Publish failures affect only delivery and are logged; a
// recipient without a live connection fetches the row on its next list.
func (b *Broadcaster) CreateForAllRecipients(ctx context.Context, role Role, payload EventPayload) ([]Notification, error) {
	recipients, err := b.recipients.ListActive(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	rows := make([]Notification, 0, len(recipients))
	for _, r := range recipients {
		rows = append(rows, Notification{
			RecipientID: r.ID,
			Title:       payload.Title,
			Body:        payload.Body,
			Link:        payload.Link,
		})
	}

	created, err := b.storage.CreateMany(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to store notifications: %w", err)
	}

	for _, row := range created {
		if err := b.publisher.Publish(row.RecipientID, NewNotificationEvent(row)); err != nil {
			b.log.LogAttrs(ctx, slog.LevelWarn, "failed to publish notification, row is stored and fetchable",
				logger.NotificationID(row.ID),
				logger.RecipientID(row.RecipientID),
				logger.Error(err),
			)
		}
	}

	return created, nil
}

// Dispatch runs CreateForAllRecipients detached from the caller: the trigger
// never awaits completion and no failure here can unwind into it. The work
// inherits the caller's context values but not its cancellation, and is
// bounded by the dispatch timeout.
func (b *Broadcaster) Dispatch(ctx context.Context, role Role, payload EventPayload) {
	detached := context.WithoutCancel(ctx)
	async.Async(detached, payload, func(ctx context.Context, p EventPayload) (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, b.dispatchTimeout)
		defer cancel()

		if _, err := b.CreateForAllRecipients(ctx, role, p); err != nil {
			b.log.LogAttrs(ctx, slog.LevelError, "broadcast dispatch failed",
				logger.Role(string(role)),
				logger.Error(err),
			)
		}
		return struct{}{}, nil
	})
}
