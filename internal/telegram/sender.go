package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/output"
)

// Sender is the part of *bot.Bot the chat front-end uses.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// SendText sends a short Markdown message, retrying as plain text when
// Telegram rejects the markup.
func SendText(ctx context.Context, s Sender, chatID int64, text string, markup models.ReplyMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	_, err := s.SendMessage(ctx, params)
	if err != nil {
		slog.Warn("markdown send failed, falling back to plain text", "chat_id", chatID, "error", err)
		params.ParseMode = ""
		if _, err = s.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

// SendLongMessage splits text into message-sized parts. markup is attached
// to the last part only.
func SendLongMessage(ctx context.Context, s Sender, chatID int64, text string, markup models.ReplyMarkup) error {
	parts := SplitMessage(FixMarkdown(text), config.MaxTelegramMessageLen)

	for i, part := range parts {
		var m models.ReplyMarkup
		if i == len(parts)-1 {
			m = markup
		}
		if err := SendText(ctx, s, chatID, part, m); err != nil {
			return err
		}
	}
	return nil
}

// SendCode sends a generated snippet without altering it: as a Markdown
// code block when possible, otherwise as plain text. markup is attached to
// the last part only.
func SendCode(ctx context.Context, s Sender, chatID int64, code string, markup models.ReplyMarkup) error {
	if fenced, ok := output.Fence(code); ok {
		return SendLongMessage(ctx, s, chatID, fenced, markup)
	}

	parts := SplitPlain(code, config.MaxTelegramMessageLen)
	for i, part := range parts {
		params := &bot.SendMessageParams{ChatID: chatID, Text: part}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}
		if _, err := s.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send code: %w", err)
		}
	}
	return nil
}

// StartTyping sends "typing..." every 4 seconds until the returned cancel
// function is called.
func StartTyping(ctx context.Context, s Sender, chatID int64) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	send := func() {
		_, _ = s.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: models.ChatActionTyping,
		})
	}

	go func() {
		ticker := time.NewTicker(4 * time.Second)
		defer ticker.Stop()
		send()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				send()
			}
		}
	}()
	return cancel
}

// Answer acknowledges a callback query, optionally with a short popup text.
func Answer(ctx context.Context, s Sender, callbackID, text string) {
	_, err := s.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		slog.Debug("answer callback query", "error", err)
	}
}
