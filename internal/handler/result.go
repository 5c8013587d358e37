package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/chat"
	"github.com/set-night/codegen/internal/middleware"
	"github.com/set-night/codegen/internal/output"
	tg "github.com/set-night/codegen/internal/telegram"
)

const textNoResult = "Сначала сгенерируйте код"

// callbackResult acknowledges the callback and returns the chat's last
// result, or "" when there is none.
func callbackResult(ctx context.Context, b *bot.Bot, update *models.Update, answer string) (*chat.Page, string) {
	p := middleware.GetPage(ctx)
	if p == nil || update.CallbackQuery == nil {
		return nil, ""
	}
	code := p.Controller.Result()
	if code == "" {
		tg.Answer(ctx, b, update.CallbackQuery.ID, textNoResult)
		return nil, ""
	}
	tg.Answer(ctx, b, update.CallbackQuery.ID, answer)
	return p, code
}

func (h *Handler) handleCopy(ctx context.Context, b *bot.Bot, update *models.Update) {
	p, code := callbackResult(ctx, b, update, output.TitleCopied)
	if p == nil {
		return
	}
	if err := tg.SendCode(ctx, b, p.ChatID, code, nil); err != nil {
		send(ctx, b, p.ChatID, "❌ Не удалось отправить код", nil)
	}
}

func (h *Handler) handleDownload(ctx context.Context, b *bot.Bot, update *models.Update) {
	p, code := callbackResult(ctx, b, update, output.TitleDownloaded)
	if p == nil {
		return
	}
	if err := tg.SendDocument(ctx, b, p.ChatID, output.DefaultFilename, []byte(code), output.TextDownloaded); err != nil {
		send(ctx, b, p.ChatID, "❌ Не удалось отправить файл", nil)
	}
}

func (h *Handler) handlePreview(ctx context.Context, b *bot.Bot, update *models.Update) {
	p, code := callbackResult(ctx, b, update, "")
	if p == nil {
		return
	}
	preview, ok := output.NewPreview(code)
	if !ok {
		send(ctx, b, p.ChatID, output.TextNoPreview, nil)
		return
	}
	send(ctx, b, p.ChatID, "👁 Предпросмотр\n\n"+tg.EscapeMarkdown(preview.String()), nil)
}
