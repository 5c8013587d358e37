package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/set-night/codegen/internal/metrics"
)

const textRateLimited = "⏳ Слишком много запросов. Подождите немного."

type chatLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter allows perMinute messages per chat with a burst of the same
// size.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	mu       sync.Mutex
	limiters map[int64]*chatLimiter
}

func NewRateLimiter(perMinute int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		ttl:      ttl,
		now:      time.Now,
		limiters: make(map[int64]*chatLimiter),
	}
}

// Allow reports whether chatID may send another message now.
func (rl *RateLimiter) Allow(chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, ok := rl.limiters[chatID]
	if !ok {
		cl = &chatLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[chatID] = cl
	}
	cl.lastAccess = now
	return cl.limiter.AllowN(now, 1)
}

// Cleanup drops limiters not used within the TTL.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for id, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > rl.ttl {
			delete(rl.limiters, id)
			removed++
		}
	}
	return removed
}

// Len is the number of tracked chats.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Run cleans up every interval until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// RateLimit returns middleware that enforces the per-chat limit on
// messages. Callback queries are not limited.
func RateLimit(rl *RateLimiter, rec metrics.Recorder) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !rl.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				rec.RecordRateLimited()
				if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   textRateLimited,
				}); err != nil {
					slog.Warn("send rate limit notice", "chat_id", chatID, "error", err)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
