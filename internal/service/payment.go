package service

import (
	"context"
	"net/http"
	"time"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/metrics"
)

// PaymentService creates checkout sessions for the Pro upgrade.
type PaymentService struct {
	url    string
	client jsonClient
}

func NewPaymentService(url string, timeout time.Duration, rec metrics.Recorder) *PaymentService {
	return &PaymentService{
		url:    url,
		client: newJSONClient(EndpointPayment, timeout, rec),
	}
}

// PaymentSession is a checkout the user completes in a browser.
// Mock is set when the payment backend has no provider configured.
type PaymentSession struct {
	URL       string `json:"payment_url"`
	SessionID string `json:"session_id,omitempty"`
	Mock      bool   `json:"mock,omitempty"`
}

type paymentRequest struct {
	UserID domain.UserID `json:"user_id"`
	Action string        `json:"action"`
}

func (s *PaymentService) CreateSession(ctx context.Context, userID string) (*PaymentSession, error) {
	req := paymentRequest{
		UserID: domain.UserID(userID),
		Action: config.PaymentActionCreateSession,
	}

	var ps PaymentSession
	status, err := s.client.do(ctx, call{method: http.MethodPost, url: s.url, userID: userID, body: req}, &ps)
	if err != nil {
		return nil, err
	}
	if ps.URL == "" {
		return nil, &domain.RemoteError{Endpoint: EndpointPayment, Status: status, Err: domain.ErrEmptyResponse}
	}
	return &ps, nil
}
