// Package page holds the front-end independent state machines: the usage
// profile panel, the generation request and the page controller that ties
// them together. Rendering is delegated to the Notifier, Opener and View
// implementations of each front-end.
package page

import (
	"context"

	"github.com/set-night/codegen/internal/domain"
	"github.com/set-night/codegen/internal/service"
)

// Notifier shows short toast-like messages.
type Notifier interface {
	Success(ctx context.Context, title, text string)
	Error(ctx context.Context, title, text string)
}

// Opener opens url in a new browsing context.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// View renders a fresh generation result.
type View interface {
	Show(ctx context.Context, code string)
}

// AccountClient is the part of service.AccountService the profile needs.
type AccountClient interface {
	FetchUser(ctx context.Context, id string) (*domain.User, error)
	SignIn(ctx context.Context, username, email string) (*domain.User, error)
	SignInTelegram(ctx context.Context, telegramID int64, username string) (*domain.User, error)
}

// PaymentClient creates checkout sessions.
type PaymentClient interface {
	CreateSession(ctx context.Context, userID string) (*service.PaymentSession, error)
}

// GenerationClient turns a prompt into source code.
type GenerationClient interface {
	Generate(ctx context.Context, prompt, userID string) (string, error)
}

// Notification texts.
const (
	TitleError   = "Ошибка"
	TitleSuccess = "Успешно"

	TextEmptyPrompt     = "Введите описание задачи"
	TextGenerated       = "Код сгенерирован"
	TextGenerateFailed  = "Не удалось сгенерировать код"
	TextEmptySignIn     = "Заполните имя и email"
	TextSignedIn        = "Вы вошли в аккаунт"
	TextSignInFailed    = "Не удалось войти"
	TextAuthRequired    = "Сначала войдите в аккаунт"
	TextPaymentFailed   = "Не удалось создать платёж"
	TextPaymentOpened   = "Откройте страницу оплаты"
	TextRequestInFlight = "Дождитесь ответа на предыдущий запрос"
)
