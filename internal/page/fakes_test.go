package page

import (
	"context"
	"sync"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/service"
)

type toast struct {
	ok    bool
	title string
	text  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []toast
}

func (n *fakeNotifier) Success(_ context.Context, title, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{true, title, text})
}

func (n *fakeNotifier) Error(_ context.Context, title, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{false, title, text})
}

func (n *fakeNotifier) last() toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

type fakeOpener struct {
	urls []string
	err  error
}

func (o *fakeOpener) Open(_ context.Context, url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type fakeView struct {
	shown []string
}

func (v *fakeView) Show(_ context.Context, code string) {
	v.shown = append(v.shown, code)
}

type fakeAccounts struct {
	mu          sync.Mutex
	user        *domain.User
	err         error
	fetches     []string
	signIns     int
	telegramIns int
}

func (a *fakeAccounts) FetchUser(_ context.Context, id string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fetches = append(a.fetches, id)
	if a.err != nil {
		return nil, a.err
	}
	u := *a.user
	return &u, nil
}

func (a *fakeAccounts) SignIn(_ context.Context, username, email string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signIns++
	if a.err != nil {
		return nil, a.err
	}
	u := *a.user
	u.Username = username
	u.Email = &email
	return &u, nil
}

func (a *fakeAccounts) SignInTelegram(_ context.Context, telegramID int64, username string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.telegramIns++
	if a.err != nil {
		return nil, a.err
	}
	u := *a.user
	u.Username = username
	u.TelegramID = &telegramID
	return &u, nil
}

func (a *fakeAccounts) fetchCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.fetches)
}

type fakePayments struct {
	userIDs []string
	session *service.PaymentSession
	err     error
}

func (p *fakePayments) CreateSession(_ context.Context, userID string) (*service.PaymentSession, error) {
	p.userIDs = append(p.userIDs, userID)
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

type generateCall struct {
	prompt, userID string
}

type fakeGeneration struct {
	mu      sync.Mutex
	calls   []generateCall
	results []string
	err     error
	// when set, Generate blocks until release is closed
	started chan struct{}
	release chan struct{}
}

func (g *fakeGeneration) Generate(ctx context.Context, prompt, userID string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, generateCall{prompt, userID})
	n := len(g.calls)
	g.mu.Unlock()

	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if g.err != nil {
		return "", g.err
	}
	if n <= len(g.results) {
		return g.results[n-1], nil
	}
	return "code", nil
}

func (g *fakeGeneration) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
