package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/metrics"
)

// AccountService talks to the fetch/create user endpoint.
type AccountService struct {
	baseURL string
	client  jsonClient
}

func NewAccountService(baseURL string, timeout time.Duration, rec metrics.Recorder) *AccountService {
	return &AccountService{
		baseURL: baseURL,
		client:  newJSONClient(EndpointAuth, timeout, rec),
	}
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

type signInRequest struct {
	Email      string `json:"email,omitempty"`
	TelegramID int64  `json:"telegram_id,omitempty"`
	Username   string `json:"username"`
}

// FetchUser loads the user record for id.
func (s *AccountService) FetchUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse auth url: %w", err)
	}
	q := u.Query()
	q.Set("user_id", id)
	u.RawQuery = q.Encode()

	var env userEnvelope
	if _, err := s.client.do(ctx, call{method: http.MethodGet, url: u.String(), userID: id}, &env); err != nil {
		return nil, err
	}
	return userFrom(env)
}

// SignIn fetches the account registered for email, creating it on first use.
func (s *AccountService) SignIn(ctx context.Context, username, email string) (*domain.User, error) {
	return s.signIn(ctx, signInRequest{Email: email, Username: username})
}

// SignInTelegram is SignIn keyed by a Telegram account instead of an email.
func (s *AccountService) SignInTelegram(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	return s.signIn(ctx, signInRequest{TelegramID: telegramID, Username: username})
}

func (s *AccountService) signIn(ctx context.Context, req signInRequest) (*domain.User, error) {
	var env userEnvelope
	if _, err := s.client.do(ctx, call{method: http.MethodPost, url: s.baseURL, body: req}, &env); err != nil {
		return nil, err
	}
	return userFrom(env)
}

func userFrom(env userEnvelope) (*domain.User, error) {
	if env.User == nil || env.User.ID == "" {
		return nil, fmt.Errorf("%s: %w", EndpointAuth, domain.ErrEmptyResponse)
	}
	return env.User, nil
}
