// Package feed carries committed room snapshots from the engine to live
// subscribers over Redis pub/sub.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel-pms/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrDisabled = errors.New("live room feed is disabled")

type Subscriber interface {
	// Subscribe delivers rooms of one hotel until ctx is done; the channel
	// is closed afterwards.
	Subscribe(ctx context.Context, hotelID uuid.UUID) (<-chan *entity.Room, error)
}

// Recorder counts feed traffic.
type Recorder interface {
	RecordFeed(direction string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordFeed(string, error) {}

func Channel(hotelID uuid.UUID) string {
	return fmt.Sprintf("hotel:%s:rooms", hotelID)
}

type RedisFeed struct {
	client   redis.UniversalClient
	log      *zap.Logger
	recorder Recorder
}

func NewRedisFeed(client redis.UniversalClient, recorder Recorder, log *zap.Logger) *RedisFeed {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &RedisFeed{
		client:   client,
		log:      log.With(zap.String("component", "feed")),
		recorder: recorder,
	}
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return client, nil
}

func (f *RedisFeed) PublishRoom(ctx context.Context, room *entity.Room) error {
	payload, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	err = f.client.Publish(ctx, Channel(room.HotelID), payload).Err()
	f.recorder.RecordFeed("publish", err)
	if err != nil {
		return fmt.Errorf("publish room %s: %w", room.ID, err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context, hotelID uuid.UUID) (<-chan *entity.Room, error) {
	pubsub := f.client.Subscribe(ctx, Channel(hotelID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", Channel(hotelID), err)
	}

	out := make(chan *entity.Room)
	go func() {
		defer close(out)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var room entity.Room
				err := json.Unmarshal([]byte(msg.Payload), &room)
				f.recorder.RecordFeed("receive", err)
				if err != nil {
					f.log.Warn("Dropping undecodable room snapshot",
						zap.String("channel", msg.Channel),
						zap.Error(err),
					)
					continue
				}
				select {
				case out <- &room:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Nop is installed when Redis is disabled.
type Nop struct{}

func (Nop) PublishRoom(context.Context, *entity.Room) error { return nil }

func (Nop) Subscribe(context.Context, uuid.UUID) (<-chan *entity.Room, error) {
	return nil, ErrDisabled
}
