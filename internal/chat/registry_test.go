package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/service"
	"github.com/set-night/codegen/internal/session"
)

type fakeSender struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, p.Text)
	return &models.Message{}, nil
}

func (f *fakeSender) SendDocument(context.Context, *bot.SendDocumentParams) (*models.Message, error) {
	return &models.Message{}, nil
}

func (f *fakeSender) SendChatAction(context.Context, *bot.SendChatActionParams) (bool, error) {
	return true, nil
}

func (f *fakeSender) AnswerCallbackQuery(context.Context, *bot.AnswerCallbackQueryParams) (bool, error) {
	return true, nil
}

type fakeAccounts struct {
	mu   sync.Mutex
	used int
}

func (a *fakeAccounts) FetchUser(_ context.Context, id string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &domain.User{ID: domain.UserID(id), Username: "alice", FreeRequestsUsed: a.used, FreeRequestsLimit: 5}, nil
}

func (a *fakeAccounts) SignIn(context.Context, string, string) (*domain.User, error) {
	return &domain.User{ID: "42"}, nil
}

func (a *fakeAccounts) SignInTelegram(context.Context, int64, string) (*domain.User, error) {
	return &domain.User{ID: "42"}, nil
}

type fakePayments struct{}

func (fakePayments) CreateSession(context.Context, string) (*service.PaymentSession, error) {
	return &service.PaymentSession{URL: "https://pay.example/abc"}, nil
}

type fakeGeneration struct {
	accounts *fakeAccounts
	release  chan struct{}
}

func (g *fakeGeneration) Generate(ctx context.Context, _, _ string) (string, error) {
	if g.release != nil {
		<-g.release
	}
	g.accounts.mu.Lock()
	g.accounts.used++
	g.accounts.mu.Unlock()
	return "print(1)", nil
}

type fakeRelay struct {
	registered   int
	unregistered int
	published    []string
}

func (r *fakeRelay) Publish(_ context.Context, key string) error {
	r.published = append(r.published, key)
	return nil
}

func (r *fakeRelay) Register(*session.Context) func() {
	r.registered++
	return func() { r.unregistered++ }
}

func newTestRegistry(relay Relay) (*Registry, *fakeGeneration) {
	accounts := &fakeAccounts{used: 2}
	gen := &fakeGeneration{accounts: accounts}
	r := NewRegistry(session.NewMemoryStore(), Clients{
		Accounts:   accounts,
		Payments:   fakePayments{},
		Generation: gen,
	}, relay, time.Minute)
	return r, gen
}

func TestRegistry_GetReusesPage(t *testing.T) {
	r, _ := newTestRegistry(nil)
	s := &fakeSender{}

	p1 := r.Get(s, 1)
	p2 := r.Get(s, 1)
	p3 := r.Get(s, 2)

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, "chat:1", p1.Session.Key())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_QuotaLineAfterGeneration(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(nil)
	s := &fakeSender{}
	p := r.Get(s, 1)
	require.NoError(t, p.Session.SetUserID(ctx, "42"))
	p.Profile.Load(ctx)

	require.NoError(t, p.Controller.SubmitPrompt(ctx, "hello"))

	assert.Equal(t, 2, p.Profile.View().Remaining)
	assert.Contains(t, s.texts, "📊 Осталось бесплатных запросов: 2 из 5")
}

func TestRegistry_Sweep(t *testing.T) {
	r, gen := newTestRegistry(nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	s := &fakeSender{}

	r.Get(s, 1)
	busy := r.Get(s, 2)
	gen.release = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = busy.Controller.SubmitPrompt(context.Background(), "slow")
	}()
	require.Eventually(t, busy.Controller.Busy, time.Second, 5*time.Millisecond)

	now = now.Add(30 * time.Second)
	assert.Zero(t, r.Sweep())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len(), "busy page survives")

	close(gen.release)
	<-done
	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, r.Len())
}

func TestRegistry_RelayWiring(t *testing.T) {
	ctx := context.Background()
	relay := &fakeRelay{}
	r, _ := newTestRegistry(relay)

	p := r.Get(&fakeSender{}, 7)
	p.Session.NotifyUserUpdated(ctx)

	assert.Equal(t, 1, relay.registered)
	assert.Equal(t, []string{"chat:7"}, relay.published)

	r.Close()
	assert.Equal(t, 1, relay.unregistered)
	assert.Zero(t, r.Len())
}
