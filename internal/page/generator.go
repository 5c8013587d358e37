package page

import (
	"context"
	"fmt"
	"strings"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/session"
)

// Generator submits prompts on behalf of the session's user.
type Generator struct {
	session *session.Context
	client  GenerationClient
}

func NewGenerator(s *session.Context, client GenerationClient) *Generator {
	return &Generator{session: s, client: client}
}

// Generate returns the code for prompt. A blank prompt fails before any
// network call. A success consumes quota server side, so the session's
// observers are told to refresh exactly once, after render (if not nil)
// has shown the code.
func (g *Generator) Generate(ctx context.Context, prompt string, render func(code string)) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &domain.ValidationError{Field: "prompt"}
	}

	userID, _ := g.session.UserID(ctx)
	code, err := g.client.Generate(ctx, prompt, userID)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if render != nil {
		render(code)
	}
	g.session.NotifyUserUpdated(ctx)
	return code, nil
}
