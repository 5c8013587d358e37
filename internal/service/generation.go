package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/metrics"
)

// GenerationService posts prompts to the code generation endpoint.
type GenerationService struct {
	url    string
	client jsonClient
}

func NewGenerationService(url string, timeout time.Duration, rec metrics.Recorder) *GenerationService {
	return &GenerationService{
		url:    url,
		client: newJSONClient(EndpointGenerate, timeout, rec),
	}
}

type generateRequest struct {
	Prompt string        `json:"prompt"`
	UserID domain.UserID `json:"user_id,omitempty"`
}

type generateResponse struct {
	Code string `json:"code"`
}

// Generate returns the source produced for prompt. userID may be empty for
// guests; the server then applies its anonymous quota.
func (s *GenerationService) Generate(ctx context.Context, prompt, userID string) (string, error) {
	req := generateRequest{Prompt: prompt, UserID: domain.UserID(userID)}

	var resp generateResponse
	if _, err := s.client.do(ctx, call{method: http.MethodPost, url: s.url, userID: userID, body: req}, &resp); err != nil {
		return "", err
	}
	if resp.Code == "" {
		return "", fmt.Errorf("%s: %w", EndpointGenerate, domain.ErrEmptyResponse)
	}
	return resp.Code, nil
}
