package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/middleware"
	tg "github.com/set-night/codegen/internal/telegram"
)

const (
	textHelp = "📋 *Команды:*\n" +
		"/generate <задача> — Сгенерировать код\n" +
		"/profile — Профиль и остаток запросов\n" +
		"/signin <имя> <email> — Войти по email\n" +
		"/signout — Выйти\n" +
		"/pro — Возможности Pro\n" +
		"/upgrade — Перейти на Pro\n\n" +
		"Или просто опишите задачу сообщением."
	textSignInHelp     = "Отправьте: /signin <имя> <email>"
	textUnknownCommand = "Неизвестная команда. /help — список команд."
	textSignedOut      = "Вы вышли из аккаунта"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	p := middleware.GetPage(ctx)
	if update.Message == nil || p == nil {
		return
	}
	msg := update.Message

	name := "друг"
	if from := msg.From; from != nil {
		name = displayName(from)
		if _, ok := p.Session.UserID(ctx); !ok && msg.Chat.Type == models.ChatTypePrivate {
			// errors are already reported to the chat by the profile
			_, _ = p.Profile.SignInTelegram(ctx, from.ID, name)
		}
	}

	p.Profile.Load(ctx)
	send(ctx, b, msg.Chat.ID, fmt.Sprintf(
		"👋 Привет, *%s*!\n\nЯ генерирую код по описанию задачи.\n\n%s",
		tg.EscapeMarkdown(name), textHelp,
	), nil)
	h.showProfile(ctx, b, msg.Chat.ID)
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	send(ctx, b, update.Message.Chat.ID, textHelp, nil)
}

func displayName(u *models.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
