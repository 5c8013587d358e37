package config

import "time"

const (
	// Session storage keys
	SessionKeyCLI     = "codegen_user_id"
	SessionKeyChatFmt = "chat:%d"

	// Relay channel for quota refresh notifications
	UserUpdatedChannel = "codegen:user-updated"

	// Payment action understood by the payment endpoint
	PaymentActionCreateSession = "create_session"

	// Request headers
	HeaderUserID    = "X-User-Id"
	HeaderRequestID = "X-Request-Id"

	// Largest response body read from a remote endpoint
	MaxResponseBytes = 4 << 20

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Idle per-chat state is dropped after this long
	ChatIdleTTL     = 30 * time.Minute
	ChatIdleCleanup = 5 * time.Minute

	// Ops server
	ShutdownTimeout = 5 * time.Second

	// Preview excerpt length (runes)
	PreviewExcerptLen = 300
)

// ProFeatures lists what the upgrade unlocks.
var ProFeatures = []string{
	"Безлимитные генерации",
	"Приоритетная поддержка",
	"Расширенные модели ИИ",
}
