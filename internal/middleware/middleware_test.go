package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/codegen/internal/chat"
	"github.com/set-night/codegen/internal/session"
	"github.com/set-night/codegen/internal/telegram/telegramtest"
)

type countingRecorder struct {
	limited int
}

func (r *countingRecorder) RecordCall(string, string, time.Duration) {}
func (r *countingRecorder) RecordRateLimited()                       { r.limited++ }

func messageUpdate(chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
			From: &models.User{ID: chatID},
			Text: text,
		},
	}
}

func callbackUpdate(chatID int64, data string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb",
			From: models.User{ID: chatID},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: chatID}},
			},
		},
	}
}

func TestChatID(t *testing.T) {
	assert.Equal(t, int64(5), ChatID(messageUpdate(5, "x")))
	assert.Equal(t, int64(6), ChatID(callbackUpdate(6, "x")))
	assert.Zero(t, ChatID(&models.Update{}))
}

func TestRecover(t *testing.T) {
	h := Recover()(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() { h(context.Background(), nil, messageUpdate(1, "x")) })
}

func TestLogging_CallsNext(t *testing.T) {
	called := false
	h := Logging()(func(context.Context, *bot.Bot, *models.Update) { called = true })

	h(context.Background(), nil, callbackUpdate(1, "x"))

	assert.True(t, called)
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))
	assert.True(t, rl.Allow(2), "chats are limited separately")

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow(1), "one token refills every 30s")
	assert.False(t, rl.Allow(1))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow(1)
	now = now.Add(45 * time.Second)
	rl.Allow(2)
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimit_Middleware(t *testing.T) {
	srv := telegramtest.NewServer(t)
	b := srv.Bot(t)
	rec := &countingRecorder{}
	rl := NewRateLimiter(1, time.Minute)

	calls := 0
	h := RateLimit(rl, rec)(func(context.Context, *bot.Bot, *models.Update) { calls++ })

	h(context.Background(), b, messageUpdate(1, "first"))
	h(context.Background(), b, messageUpdate(1, "second"))
	h(context.Background(), b, callbackUpdate(1, "button"))

	assert.Equal(t, 2, calls, "second message dropped, callback passes")
	assert.Equal(t, 1, rec.limited)
	require.Len(t, srv.Texts(), 1)
	assert.Equal(t, textRateLimited, srv.Texts()[0])
}

func TestPageLoader(t *testing.T) {
	reg := chat.NewRegistry(session.NewMemoryStore(), chat.Clients{}, nil, time.Minute)

	var got *chat.Page
	h := PageLoader(reg)(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		got = GetPage(ctx)
	})

	h(context.Background(), nil, messageUpdate(9, "x"))
	require.NotNil(t, got)
	assert.Equal(t, int64(9), got.ChatID)

	got = nil
	h(context.Background(), nil, &models.Update{})
	assert.Nil(t, got)
	assert.Nil(t, GetPage(context.Background()))
}
