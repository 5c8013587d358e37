package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/config"
	tg "github.com/set-night/codegen/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
// Per-chat state arrives through middleware.PageLoader.
type Handler struct {
	bot *bot.Bot
	cfg *config.BotConfig
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot *bot.Bot
	Cfg *config.BotConfig
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot: deps.Bot,
		cfg: deps.Cfg,
	}
}

// send is tg.SendText with a keyboard that may be nil.
func send(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	var markup models.ReplyMarkup
	if kb != nil {
		markup = kb
	}
	if err := tg.SendText(ctx, b, chatID, text, markup); err != nil {
		slog.Error("send message", "chat_id", chatID, "error", err)
	}
}
