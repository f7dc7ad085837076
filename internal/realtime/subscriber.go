package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Subscriber receives push events from the shared store's change channels.
// Each call to SubscribeRoomChanges / SubscribeActivityInserts opens its own
// Redis subscription and returns an unsubscribe handle; after the handle is
// called no further callbacks fire, even for messages already in flight.
type Subscriber struct {
	rdb    *redis.Client
	logger *logrus.Logger
}

// NewSubscriber creates a Subscriber
func NewSubscriber(rdb *redis.Client, logger *logrus.Logger) *Subscriber {
	return &Subscriber{
		rdb:    rdb,
		logger: logger,
	}
}

// SubscribeRoomChanges delivers room change events to callback in the order
// they were published. The returned function tears the subscription down.
func (s *Subscriber) SubscribeRoomChanges(ctx context.Context, callback func(RoomChangeEvent)) (func(), error) {
	pubsub := s.rdb.Subscribe(ctx, RoomChangesChannel)

	// Force the subscription to be established before returning so no
	// event published after this call is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	var closed sync.Once
	done := make(chan struct{})

	go func() {
		for msg := range pubsub.Channel() {
			select {
			case <-done:
				return
			default:
			}

			var event RoomChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).Warn("Dropping malformed room change event")
				continue
			}
			callback(event)
		}
	}()

	unsubscribe := func() {
		closed.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return unsubscribe, nil
}

// SubscribeActivityInserts delivers new activity records as they land
func (s *Subscriber) SubscribeActivityInserts(ctx context.Context, callback func(ActivityInsertEvent)) (func(), error) {
	pubsub := s.rdb.Subscribe(ctx, ActivityInsertsChannel)

	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	var closed sync.Once
	done := make(chan struct{})

	go func() {
		for msg := range pubsub.Channel() {
			select {
			case <-done:
				return
			default:
			}

			var event ActivityInsertEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.WithError(err).Warn("Dropping malformed activity insert event")
				continue
			}
			callback(event)
		}
	}()

	unsubscribe := func() {
		closed.Do(func() {
			close(done)
			pubsub.Close()
		})
	}
	return unsubscribe, nil
}
