package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/set-night/codegen/internal/domain"
)

// Controller owns the prompt, the latest result and the in-flight flag of
// one page. At most one generation runs at a time; a second Submit while
// one is pending returns domain.ErrActiveRequest without calling out.
type Controller struct {
	generator *Generator
	notifier  Notifier
	view      View

	mu     sync.Mutex
	prompt string
	result string
	busy   bool
}

func NewController(g *Generator, n Notifier, v View) *Controller {
	return &Controller{generator: g, notifier: n, view: v}
}

func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	c.prompt = prompt
	c.mu.Unlock()
}

func (c *Controller) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

// Result is the most recent generated code, empty until the first success.
func (c *Controller) Result() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// SubmitPrompt sets the prompt and submits it.
func (c *Controller) SubmitPrompt(ctx context.Context, prompt string) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrActiveRequest
	}
	c.prompt = prompt
	c.mu.Unlock()

	return c.Submit(ctx)
}

// Submit generates code for the current prompt. On success the previous
// result is replaced and the view is updated; on failure the previous
// result stays as it was.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return domain.ErrActiveRequest
	}
	c.busy = true
	prompt := c.prompt
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	_, err := c.generator.Generate(ctx, prompt, func(code string) {
		c.mu.Lock()
		c.result = code
		c.mu.Unlock()

		c.notifier.Success(ctx, TitleSuccess, TextGenerated)
		c.view.Show(ctx, code)
	})
	if err != nil {
		if ctx.Err() != nil {
			slog.Debug("generation abandoned", "error", err)
			return err
		}
		if errors.Is(err, domain.ErrValidation) {
			c.notifier.Error(ctx, TitleError, TextEmptyPrompt)
		} else {
			slog.Warn("generation failed", "error", err)
			c.notifier.Error(ctx, TitleError, domain.UserMessage(err, TextGenerateFailed))
		}
		return err
	}
	return nil
}
