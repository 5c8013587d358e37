package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/middleware"
	tg "github.com/set-night/codegen/internal/telegram"
)

func (h *Handler) handleUpgrade(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if update.Message == nil || p == nil {
		return
	}
	// the profile reports failures and sends the payment link itself
	_, _ = p.Profile.Upgrade(ctx)
}

func (h *Handler) handleUpgradeCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if p == nil {
		return
	}
	tg.Answer(ctx, b, update.CallbackQuery.ID, "")
	_, _ = p.Profile.Upgrade(ctx)
}

func (h *Handler) handlePro(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	kb := tg.InlineKeyboard(tg.ButtonRow(tg.InlineButton("⭐ Перейти на Pro", tg.CallbackUpgrade)))
	send(ctx, b, update.Message.Chat.ID, tg.FormatProOffer(h.cfg.PremiumPriceString()), kb)
}
