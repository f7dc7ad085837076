package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Publisher fans committed writes out to every subscribed engine instance.
// Publishing happens after the store commit, so within one publisher the
// stream order matches commit order.
type Publisher struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewPublisher creates a Publisher
func NewPublisher(rdb *redis.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		rdb:    rdb,
		logger: logger,
	}
}

// PublishRoomChange announces a committed room write
func (p *Publisher) PublishRoomChange(ctx context.Context, event RoomChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal room change event: %w", err)
	}
	if err := p.rdb.Publish(ctx, RoomChangesChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish room change: %w", err)
	}
	return nil
}

// PublishActivityInsert announces a freshly appended activity record.
// Failures are logged, not returned: the record is already durable and the
// feed catches up on the next full read.
func (p *Publisher) PublishActivityInsert(ctx context.Context, event ActivityInsertEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to marshal activity insert event")
		return
	}
	if err := p.rdb.Publish(ctx, ActivityInsertsChannel, payload).Err(); err != nil {
		p.logger.WithError(err).Warn("Failed to publish activity insert")
	}
}
