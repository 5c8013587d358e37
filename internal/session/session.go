// Package session holds the signed-in user identifier for one front-end
// surface (a terminal, a chat) and tells interested components when the
// remote user record may have changed.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Observer is called after the user record may have changed server side,
// e.g. when a generation consumed one unit of quota.
type Observer func(ctx context.Context)

// Publisher forwards local notifications to other processes.
type Publisher interface {
	Publish(ctx context.Context, key string) error
}

type Option func(*Context)

// WithPublisher makes NotifyUserUpdated also reach other processes.
func WithPublisher(p Publisher) Option {
	return func(c *Context) { c.publisher = p }
}

// Context is the session shared by the profile panel and the page
// controller of one surface. It is safe for concurrent use.
type Context struct {
	store     Store
	key       string
	publisher Publisher

	mu        sync.Mutex
	observers map[uint64]Observer
	nextID    uint64
}

func New(store Store, key string, opts ...Option) *Context {
	c := &Context{
		store:     store,
		key:       key,
		observers: make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key is the storage key this session persists under.
func (c *Context) Key() string { return c.key }

// UserID returns the persisted identifier. A store failure is logged and
// reported as "not signed in".
func (c *Context) UserID(ctx context.Context) (string, bool) {
	id, err := c.store.Load(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			slog.Warn("load session", "key", c.key, "error", err)
		}
		return "", false
	}
	return id, id != ""
}

func (c *Context) SetUserID(ctx context.Context, userID string) error {
	if err := c.store.Save(ctx, c.key, userID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *Context) SignOut(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Subscribe registers fn for user-updated notifications and returns a
// function that removes it again.
func (c *Context) Subscribe(fn Observer) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// NotifyUserUpdated runs every observer once and forwards the event to the
// publisher, if any. Publish failures are logged only.
func (c *Context) NotifyUserUpdated(ctx context.Context) {
	c.Deliver(ctx)

	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, c.key); err != nil {
		slog.Warn("publish user update", "key", c.key, "error", err)
	}
}

// Deliver runs the local observers only. Observers added while delivering
// are not called for this round.
func (c *Context) Deliver(ctx context.Context) {
	c.mu.Lock()
	ids := make([]uint64, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	snapshot := make([]Observer, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		snapshot = append(snapshot, c.observers[id])
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn(ctx)
	}
}
