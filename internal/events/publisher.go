// Package events publishes listing lifecycle events to a Redis stream for
// downstream consumers (sitemap regeneration, cache warmers).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/imobsite/listing-manager/internal/logger"
)

// StreamName is the Redis stream listing events are appended to.
const StreamName = "listing:events"

// asyncPublishTimeout bounds fire-and-forget publishes.
const asyncPublishTimeout = 5 * time.Second

// EventType identifies what happened to a listing.
type EventType string

const (
	ListingCreated EventType = "listing.created"
	ListingUpdated EventType = "listing.updated"
	ListingDeleted EventType = "listing.deleted"
	ListingSynced  EventType = "listing.synced"
)

// ListingEvent is the payload appended to the stream.
type ListingEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	EventType EventType `json:"event_type"`
	ListingID string    `json:"listing_id"`
	Slug      string    `json:"slug,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes listing events to Redis Streams. A nil Publisher is
// a no-op.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a new event publisher. Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish appends an event to the stream.
func (p *Publisher) Publish(ctx context.Context, event ListingEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("Failed to publish event",
			logger.String("event_type", string(event.EventType)),
			logger.String("listing_id", event.ListingID),
			logger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published listing event",
		logger.String("event_type", string(event.EventType)),
		logger.String("listing_id", event.ListingID),
		logger.String("stream_id", result.Val()),
	)

	return nil
}

// PublishAsync publishes an event without blocking the caller. Errors are
// logged, not returned.
func (p *Publisher) PublishAsync(event ListingEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.String("listing_id", event.ListingID),
				logger.Error(err),
			)
		}
	}()
}
