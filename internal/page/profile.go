package page

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/session"
)

// ProfileView is everything the profile panel renders.
type ProfileView struct {
	SignedIn  bool
	Name      string
	Plan      string
	IsPremium bool
	Used      int
	Limit     int
	Progress  float64
	Remaining int
}

// Profile tracks the signed-in user and their quota.
type Profile struct {
	session  *session.Context
	accounts AccountClient
	payments PaymentClient
	opener   Opener
	notifier Notifier

	mu   sync.RWMutex
	user *domain.User

	unsubscribe func()
}

type ProfileDeps struct {
	Session  *session.Context
	Accounts AccountClient
	Payments PaymentClient
	Opener   Opener
	Notifier Notifier
}

// NewProfile creates a Profile and subscribes it to the session's
// user-updated notifications. Call Close to unsubscribe.
func NewProfile(deps ProfileDeps) *Profile {
	p := &Profile{
		session:  deps.Session,
		accounts: deps.Accounts,
		payments: deps.Payments,
		opener:   deps.Opener,
		notifier: deps.Notifier,
	}
	p.unsubscribe = deps.Session.Subscribe(func(ctx context.Context) {
		p.Load(ctx)
	})
	return p
}

func (p *Profile) Close() {
	p.unsubscribe()
}

// Load fetches the user record when the session has an identifier.
// Failures are logged and leave the current state untouched.
func (p *Profile) Load(ctx context.Context) {
	id, ok := p.session.UserID(ctx)
	if !ok {
		return
	}

	u, err := p.accounts.FetchUser(ctx, id)
	if err != nil {
		slog.Warn("fetch user", "user_id", id, "error", err)
		return
	}
	p.setUser(u)
}

// User returns the last fetched record, or nil for guests.
func (p *Profile) User() *domain.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

func (p *Profile) setUser(u *domain.User) {
	p.mu.Lock()
	p.user = u
	p.mu.Unlock()
}

// SignIn fetches or creates the account for username and email and makes
// it the session's user.
func (p *Profile) SignIn(ctx context.Context, username, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	var err error
	switch {
	case username == "":
		err = &domain.ValidationError{Field: "username"}
	case email == "":
		err = &domain.ValidationError{Field: "email"}
	}
	if err != nil {
		p.notifier.Error(ctx, TitleError, TextEmptySignIn)
		return nil, err
	}

	u, err := p.accounts.SignIn(ctx, username, email)
	return p.completeSignIn(ctx, u, err)
}

// SignInTelegram is SignIn for a Telegram account.
func (p *Profile) SignInTelegram(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	if telegramID == 0 {
		p.notifier.Error(ctx, TitleError, TextSignInFailed)
		return nil, &domain.ValidationError{Field: "telegram_id"}
	}
	if strings.TrimSpace(username) == "" {
		username = domain.GuestName
	}

	u, err := p.accounts.SignInTelegram(ctx, telegramID, username)
	return p.completeSignIn(ctx, u, err)
}

func (p *Profile) completeSignIn(ctx context.Context, u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		p.notifier.Error(ctx, TitleError, domain.UserMessage(err, TextSignInFailed))
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := p.session.SetUserID(ctx, u.ID.String()); err != nil {
		p.notifier.Error(ctx, TitleError, TextSignInFailed)
		return nil, err
	}
	p.setUser(u)
	p.notifier.Success(ctx, TitleSuccess, TextSignedIn)
	return u, nil
}

// Upgrade creates a payment session for the signed-in user and opens it.
// Completion is not tracked here; a later Load picks up the Pro flag.
func (p *Profile) Upgrade(ctx context.Context) (string, error) {
	id, ok := p.session.UserID(ctx)
	if !ok {
		p.notifier.Error(ctx, TitleError, TextAuthRequired)
		return "", domain.ErrAuthRequired
	}

	ps, err := p.payments.CreateSession(ctx, id)
	if err != nil {
		p.notifier.Error(ctx, TitleError, domain.UserMessage(err, TextPaymentFailed))
		return "", fmt.Errorf("create payment session: %w", err)
	}
	if ps.Mock {
		slog.Info("payment backend returned a mock session", "user_id", id)
	}

	if err := p.opener.Open(ctx, ps.URL); err != nil {
		p.notifier.Error(ctx, TitleError, TextPaymentFailed)
		return "", fmt.Errorf("open payment url: %w", err)
	}
	return ps.URL, nil
}

// SignOut forgets the session's user.
func (p *Profile) SignOut(ctx context.Context) error {
	if err := p.session.SignOut(ctx); err != nil {
		return err
	}
	p.setUser(nil)
	return nil
}

// View returns the panel contents; guests get placeholders.
func (p *Profile) View() ProfileView {
	u := p.User()
	if u == nil {
		return ProfileView{Name: domain.GuestName, Plan: domain.PlanFree}
	}
	return ProfileView{
		SignedIn:  true,
		Name:      u.DisplayName(),
		Plan:      u.PlanLabel(),
		IsPremium: u.IsPremium,
		Used:      u.FreeRequestsUsed,
		Limit:     u.FreeRequestsLimit,
		Progress:  u.Progress(),
		Remaining: u.Remaining(),
	}
}
