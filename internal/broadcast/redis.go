// Package broadcast relays user-updated notifications between bot
// processes over Redis pub/sub.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/set-night/codegen/internal/session"
)

type event struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// RedisRelay implements session.Publisher. Events published by other
// processes are delivered to the locally registered sessions with the same
// key; events from this relay are skipped since NotifyUserUpdated already
// ran the local observers.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	origin  string

	mu       sync.RWMutex
	sessions map[string]map[uint64]*session.Context
	nextID   uint64

	ready     chan struct{}
	readyOnce sync.Once
}

func NewRedisRelay(client redis.UniversalClient, channel string) *RedisRelay {
	return &RedisRelay{
		client:   client,
		channel:  channel,
		origin:   uuid.NewString(),
		sessions: make(map[string]map[uint64]*session.Context),
		ready:    make(chan struct{}),
	}
}

// Register makes c receive remote events for its key until the returned
// func is called.
func (r *RedisRelay) Register(c *session.Context) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	key := c.Key()
	if r.sessions[key] == nil {
		r.sessions[key] = make(map[uint64]*session.Context)
	}
	r.sessions[key][id] = c

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.sessions[key], id)
		if len(r.sessions[key]) == 0 {
			delete(r.sessions, key)
		}
	}
}

func (r *RedisRelay) Publish(ctx context.Context, key string) error {
	data, err := json.Marshal(event{Key: key, Origin: r.origin})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// Ready is closed once Run has subscribed to the channel.
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Run receives events until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	r.readyOnce.Do(func() { close(r.ready) })
	slog.Info("user update relay started", "channel", r.channel, "origin", r.origin)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(ctx, msg.Payload)
		}
	}
}

func (r *RedisRelay) handle(ctx context.Context, payload string) {
	var ev event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		slog.Warn("malformed relay event", "payload", payload, "error", err)
		return
	}
	if ev.Origin == r.origin {
		return
	}

	r.mu.RLock()
	targets := make([]*session.Context, 0, len(r.sessions[ev.Key]))
	for _, c := range r.sessions[ev.Key] {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		c.Deliver(ctx)
	}
}
