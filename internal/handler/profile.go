package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/middleware"
	tg "github.com/set-night/codegen/internal/telegram"
)

func (h *Handler) handleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if update.Message == nil || p == nil {
		return
	}
	p.Profile.Load(ctx)
	h.showProfile(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) handleProfileCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if p == nil {
		return
	}
	tg.Answer(ctx, b, update.CallbackQuery.ID, "")
	p.Profile.Load(ctx)
	h.showProfile(ctx, b, p.ChatID)
}

// showProfile renders the last loaded profile state.
func (h *Handler) showProfile(ctx context.Context, b *bot.Bot, chatID int64) {
	p := middleware.GetPage(ctx)
	if p == nil {
		return
	}
	v := p.Profile.View()
	send(ctx, b, chatID, tg.FormatProfile(v), tg.ProfileKeyboard(v.SignedIn, v.IsPremium))
}

// handleSignIn expects "/signin <name> <email>"; the name may contain
// spaces, the email is the last word.
func (h *Handler) handleSignIn(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if update.Message == nil || p == nil {
		return
	}

	var username, email string
	if fields := strings.Fields(commandArgs(update.Message.Text)); len(fields) >= 2 {
		username = strings.Join(fields[:len(fields)-1], " ")
		email = fields[len(fields)-1]
	} else if len(fields) == 1 {
		username = fields[0]
	}

	// the profile notifies the chat on failure
	if _, err := p.Profile.SignIn(ctx, username, email); err != nil {
		return
	}
	h.showProfile(ctx, b, update.Message.Chat.ID)
}

func (h *Handler) handleSignInHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if p == nil {
		return
	}
	tg.Answer(ctx, b, update.CallbackQuery.ID, "")
	send(ctx, b, p.ChatID, textSignInHelp, nil)
}

func (h *Handler) handleSignOut(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if update.Message == nil || p == nil {
		return
	}
	if err := p.Profile.SignOut(ctx); err != nil {
		slog.Error("sign out", "chat_id", p.ChatID, "error", err)
		send(ctx, b, p.ChatID, "❌ Не удалось выйти, попробуйте позже", nil)
		return
	}
	send(ctx, b, p.ChatID, "👋 "+textSignedOut, nil)
}
