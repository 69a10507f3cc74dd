package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ssf-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a Broadcaster over a Redis pub/sub channel, for contexts in separate processes.
type Redis struct {
	rdb     *redis.Client
	channel string
	origin  string
	pubsub  *redis.PubSub
	done    chan struct{}

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
}

// NewRedis subscribes to channel and returns once the subscription is confirmed, so no
// message published afterwards is missed.
func NewRedis(ctx context.Context, rdb *redis.Client, channel, origin string) (*Redis, error) {
	if channel == "" {
		channel = DefaultChannel
	}
	ps := rdb.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}
	r := &Redis{
		rdb:      rdb,
		channel:  channel,
		origin:   origin,
		pubsub:   ps,
		done:     make(chan struct{}),
		handlers: make(map[int]Handler),
	}
	go r.loop()
	return r, nil
}

func (r *Redis) Publish(ctx context.Context, key domain.CollectionKey) error {
	b, err := json.Marshal(NewMessage(key, r.origin, time.Now()))
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, b).Err()
}

func (r *Redis) Subscribe(h Handler) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.handlers[id] = h
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.handlers, id)
		r.mu.Unlock()
	}
}

// Close ends the subscription and waits for the receive loop to exit.
func (r *Redis) Close() error {
	err := r.pubsub.Close()
	<-r.done
	return err
}

func (r *Redis) loop() {
	defer close(r.done)
	for msg := range r.pubsub.Channel() {
		var m Message
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			log.Warn().Err(err).Str("channel", r.channel).Msg("broadcast: undecodable message")
			continue
		}
		if !accept(m, r.origin) {
			continue
		}
		r.mu.RLock()
		handlers := make([]Handler, 0, len(r.handlers))
		for _, h := range r.handlers {
			handlers = append(handlers, h)
		}
		r.mu.RUnlock()
		for _, h := range handlers {
			h(m.Key)
		}
	}
}
