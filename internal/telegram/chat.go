package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/set-night/codegen/internal/page"
)

// ChatNotifier shows page notifications as chat messages.
type ChatNotifier struct {
	sender Sender
	chatID int64
}

func NewChatNotifier(s Sender, chatID int64) *ChatNotifier {
	return &ChatNotifier{sender: s, chatID: chatID}
}

func (n *ChatNotifier) Success(ctx context.Context, title, text string) {
	n.send(ctx, "✅", title, text)
}

func (n *ChatNotifier) Error(ctx context.Context, title, text string) {
	n.send(ctx, "❌", title, text)
}

func (n *ChatNotifier) send(ctx context.Context, icon, title, text string) {
	msg := fmt.Sprintf("%s *%s*\n%s", icon, EscapeMarkdown(title), EscapeMarkdown(text))
	if err := SendText(ctx, n.sender, n.chatID, msg, nil); err != nil {
		slog.Error("send notification", "chat_id", n.chatID, "error", err)
	}
}

// PaymentOpener hands the checkout URL to the user as a link button; the
// Telegram client opens it in a browser.
type PaymentOpener struct {
	sender Sender
	chatID int64
}

func NewPaymentOpener(s Sender, chatID int64) *PaymentOpener {
	return &PaymentOpener{sender: s, chatID: chatID}
}

func (o *PaymentOpener) Open(ctx context.Context, url string) error {
	return SendText(ctx, o.sender, o.chatID, page.TextPaymentOpened, PaymentKeyboard(url))
}

// CodeView renders a generation result with the copy/download/preview
// buttons underneath.
type CodeView struct {
	sender Sender
	chatID int64
}

func NewCodeView(s Sender, chatID int64) *CodeView {
	return &CodeView{sender: s, chatID: chatID}
}

func (v *CodeView) Show(ctx context.Context, code string) {
	if err := SendCode(ctx, v.sender, v.chatID, code, ResultKeyboard()); err != nil {
		slog.Error("send result", "chat_id", v.chatID, "error", err)
	}
}
