package handler

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/middleware"
	"github.com/set-night/codegen/internal/page"
	tg "github.com/set-night/codegen/internal/telegram"
)

func (h *Handler) handleGenerate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.generate(ctx, b, update.Message.Chat.ID, commandArgs(update.Message.Text))
}

// generate submits prompt on the chat's controller. The controller reports
// the outcome to the chat; only the in-flight rejection is answered here.
func (h *Handler) generate(ctx context.Context, b *bot.Bot, chatID int64, prompt string) {
	p := middleware.GetPage(ctx)
	if p == nil {
		return
	}
	if p.Controller.Busy() {
		send(ctx, b, chatID, "⏳ "+page.TextRequestInFlight, nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.GenerateTimeout)
	defer cancel()

	stopTyping := tg.StartTyping(ctx, b, chatID)
	err := p.Controller.SubmitPrompt(ctx, prompt)
	stopTyping()

	if errors.Is(err, domain.ErrActiveRequest) {
		send(ctx, b, chatID, "⏳ "+page.TextRequestInFlight, nil)
	}
}
