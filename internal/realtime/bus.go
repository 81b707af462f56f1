package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "mk:events:" // Pub/Sub channel per topic: mk:events:{topic}

// Event kinds
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindOpened  = "opened"
	KindClosed  = "closed"
)

// Event is the change notification pushed on a topic. Subscribers re-read
// the affected records; the event never carries the record itself.
type Event struct {
	Topic string    `json:"topic"`
	Kind  string    `json:"kind"`
	ID    string    `json:"id,omitempty"`
	At    time.Time `json:"at"`
}

// Publisher is implemented by Bus; services depend on this interface.
type Publisher interface {
	Publish(ctx context.Context, topic, kind, id string) error
}

// Bus is a change bus over Redis Pub/Sub.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// Publish sends one event on topic.
func (b *Bus) Publish(ctx context.Context, topic, kind, id string) error {
	data, err := json.Marshal(Event{Topic: topic, Kind: kind, ID: id, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe opens a subscription on topics. The subscription is confirmed
// by Redis before Subscribe returns, so events published afterwards are
// never missed.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) (*Subscription, error) {
	channels := make([]string, len(topics))
	for i, t := range topics {
		channels[i] = channelPrefix + t
	}

	ps := b.client.Subscribe(ctx, channels...)
	for range channels {
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			return nil, fmt.Errorf("failed to subscribe: %w", err)
		}
	}

	sub := &Subscription{ps: ps, events: make(chan Event, 16), done: make(chan struct{})}
	go sub.pump()
	return sub, nil
}

// Subscription delivers decoded events until Close.
type Subscription struct {
	ps     *redis.PubSub
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) pump() {
	defer close(s.events)
	for msg := range s.ps.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logger.Log.Warn("dropping malformed event", "channel", msg.Channel, "error", err)
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Events is closed after Close.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

// PublishAll publishes kind/id on every topic and logs failures instead of
// returning them.
func PublishAll(ctx context.Context, p Publisher, kind, id string, topics ...string) {
	if p == nil {
		return
	}
	for _, topic := range topics {
		if err := p.Publish(ctx, topic, kind, id); err != nil {
			logger.FromContext(ctx).Warn("change event not published", "topic", topic, "error", err)
		}
	}
}
