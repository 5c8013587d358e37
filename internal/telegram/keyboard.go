package telegram

import (
	"github.com/go-telegram/bot/models"
)

// Callback data of the inline buttons.
const (
	CallbackCopy     = "code_copy"
	CallbackDownload = "code_download"
	CallbackPreview  = "code_preview"
	CallbackUpgrade  = "upgrade"
	CallbackProfile  = "profile"
	CallbackSignIn   = "signin_help"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// ResultKeyboard is attached under a generated snippet.
func ResultKeyboard() *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(
			InlineButton("📋 Копировать", CallbackCopy),
			InlineButton("💾 Скачать", CallbackDownload),
		),
		ButtonRow(InlineButton("👁 Предпросмотр", CallbackPreview)),
	)
}

// ProfileKeyboard offers the upgrade to free users and a sign-in hint to
// guests. Pro users get no keyboard.
func ProfileKeyboard(signedIn, isPremium bool) *models.InlineKeyboardMarkup {
	switch {
	case !signedIn:
		return InlineKeyboard(ButtonRow(InlineButton("🔑 Войти", CallbackSignIn)))
	case !isPremium:
		return InlineKeyboard(ButtonRow(InlineButton("⭐ Перейти на Pro", CallbackUpgrade)))
	default:
		return nil
	}
}

// PaymentKeyboard opens the checkout page.
func PaymentKeyboard(url string) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(URLButton("💳 Перейти к оплате", url)))
}
