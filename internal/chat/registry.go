// Package chat keeps one page (session, profile panel and controller) per
// Telegram chat.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/page"
	"github.com/set-night/codegen/internal/session"
	"github.com/set-night/codegen/internal/telegram"
)

// Relay carries user-updated notifications between bot processes.
type Relay interface {
	session.Publisher
	Register(c *session.Context) func()
}

// Clients are the remote endpoints shared by every chat.
type Clients struct {
	Accounts   page.AccountClient
	Payments   page.PaymentClient
	Generation page.GenerationClient
}

// Page is the state of one chat.
type Page struct {
	ChatID     int64
	Session    *session.Context
	Profile    *page.Profile
	Controller *page.Controller

	lastUsed time.Time
	closers  []func()
}

func (p *Page) close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
	p.closers = nil
}

// Registry creates pages on first use and drops them after they sit idle.
// The session itself lives in the Store, so a dropped page loses only its
// last result and prompt.
type Registry struct {
	store   session.Store
	clients Clients
	relay   Relay
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.Mutex
	pages map[int64]*Page
}

// NewRegistry creates a Registry. relay may be nil.
func NewRegistry(store session.Store, clients Clients, relay Relay, idleTTL time.Duration) *Registry {
	return &Registry{
		store:   store,
		clients: clients,
		relay:   relay,
		idleTTL: idleTTL,
		now:     time.Now,
		pages:   make(map[int64]*Page),
	}
}

// Get returns the page of chatID, creating it with s as the chat's output.
func (r *Registry) Get(s telegram.Sender, chatID int64) *Page {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pages[chatID]; ok {
		p.lastUsed = r.now()
		return p
	}

	p := r.newPage(s, chatID)
	p.lastUsed = r.now()
	r.pages[chatID] = p
	return p
}

func (r *Registry) newPage(s telegram.Sender, chatID int64) *Page {
	key := fmt.Sprintf(config.SessionKeyChatFmt, chatID)
	p := &Page{ChatID: chatID}

	var opts []session.Option
	if r.relay != nil {
		opts = append(opts, session.WithPublisher(r.relay))
	}
	p.Session = session.New(r.store, key, opts...)
	if r.relay != nil {
		p.closers = append(p.closers, r.relay.Register(p.Session))
	}

	notifier := telegram.NewChatNotifier(s, chatID)
	p.Profile = page.NewProfile(page.ProfileDeps{
		Session:  p.Session,
		Accounts: r.clients.Accounts,
		Payments: r.clients.Payments,
		Opener:   telegram.NewPaymentOpener(s, chatID),
		Notifier: notifier,
	})
	p.closers = append(p.closers, p.Profile.Close)

	// subscribed after the profile, so the quota line sees the fresh record
	p.closers = append(p.closers, p.Session.Subscribe(func(ctx context.Context) {
		line, ok := telegram.QuotaLine(p.Profile.View())
		if !ok {
			return
		}
		if err := telegram.SendText(ctx, s, chatID, line, nil); err != nil {
			slog.Warn("send quota line", "chat_id", chatID, "error", err)
		}
	}))

	generator := page.NewGenerator(p.Session, r.clients.Generation)
	p.Controller = page.NewController(generator, notifier, telegram.NewCodeView(s, chatID))
	return p
}

// Len is the number of live pages.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep drops pages idle for longer than the TTL. Pages with a generation
// in flight are kept.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	removed := 0
	for id, p := range r.pages {
		if p.lastUsed.After(cutoff) || p.Controller.Busy() {
			continue
		}
		p.close()
		delete(r.pages, id)
		removed++
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Debug("idle chats dropped", "count", n, "remaining", r.Len())
			}
		}
	}
}

// Close drops every page.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.pages {
		p.close()
		delete(r.pages, id)
	}
}
