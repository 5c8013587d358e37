package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/codegen/internal/chat"
)

type ctxKey string

const PageKey ctxKey = "page"

// GetPage extracts the chat page from context.
func GetPage(ctx context.Context) *chat.Page {
	p, ok := ctx.Value(PageKey).(*chat.Page)
	if !ok {
		return nil
	}
	return p
}

// WithPage stores p in ctx.
func WithPage(ctx context.Context, p *chat.Page) context.Context {
	return context.WithValue(ctx, PageKey, p)
}

// PageLoader returns middleware that loads the chat's page into context.
// Updates without a chat pass through untouched.
func PageLoader(reg *chat.Registry) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if chatID := ChatID(update); chatID != 0 {
				ctx = WithPage(ctx, reg.Get(b, chatID))
			}
			next(ctx, b, update)
		}
	}
}
