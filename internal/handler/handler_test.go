package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/codegen/internal/chat"
	"github.com/set-night/codegen/internal/config"
	"github.com/set-night/codegen/internal/metrics"
	"github.com/set-night/codegen/internal/middleware"
	"github.com/set-night/codegen/internal/output"
	"github.com/set-night/codegen/internal/page"
	"github.com/set-night/codegen/internal/service"
	"github.com/set-night/codegen/internal/session"
	"github.com/set-night/codegen/internal/telegram/telegramtest"
)

// backend emulates the account, generation and payment endpoints.
type backend struct {
	srv *httptest.Server

	mu          sync.Mutex
	used        int
	signIns     []map[string]any
	generations []map[string]any
	payments    []map[string]any
	code        string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	be := &backend{code: "print('hello')"}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		be.mu.Lock()
		defer be.mu.Unlock()
		if r.Method == http.MethodPost {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			be.signIns = append(be.signIns, body)
		}
		writeJSON(w, map[string]any{"user": map[string]any{
			"id": 42, "username": "alice", "is_premium": false,
			"free_requests_used": be.used, "free_requests_limit": 5,
		}})
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		be.mu.Lock()
		defer be.mu.Unlock()
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		be.generations = append(be.generations, body)
		be.used++
		writeJSON(w, map[string]any{"code": be.code})
	})
	mux.HandleFunc("/payment", func(w http.ResponseWriter, r *http.Request) {
		be.mu.Lock()
		defer be.mu.Unlock()
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		be.payments = append(be.payments, body)
		writeJSON(w, map[string]any{"payment_url": "https://pay.example/abc"})
	})

	be.srv = httptest.NewServer(mux)
	t.Cleanup(be.srv.Close)
	return be
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	tg      *telegramtest.Server
	backend *backend
	reg     *chat.Registry
	h       *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{tg: telegramtest.NewServer(t), backend: newBackend(t)}

	cfg := &config.BotConfig{Config: config.Config{
		AuthURL:         f.backend.srv.URL + "/auth",
		GenerateURL:     f.backend.srv.URL + "/generate",
		PaymentURL:      f.backend.srv.URL + "/payment",
		RequestTimeout:  5 * time.Second,
		GenerateTimeout: 5 * time.Second,
		PremiumPrice:    decimal.RequireFromString("9.99"),
	}}

	f.reg = chat.NewRegistry(session.NewMemoryStore(), chat.Clients{
		Accounts:   service.NewAccountService(cfg.AuthURL, cfg.RequestTimeout, metrics.Noop{}),
		Payments:   service.NewPaymentService(cfg.PaymentURL, cfg.RequestTimeout, metrics.Noop{}),
		Generation: service.NewGenerationService(cfg.GenerateURL, cfg.GenerateTimeout, metrics.Noop{}),
	}, nil, time.Minute)
	t.Cleanup(f.reg.Close)

	f.h = New(Deps{Bot: f.tg.Bot(t), Cfg: cfg})
	return f
}

func (f *fixture) ctx(chatID int64) context.Context {
	return middleware.WithPage(context.Background(), f.reg.Get(f.h.bot, chatID))
}

func (f *fixture) transcript() string {
	return strings.Join(f.tg.Texts(), "\n---\n")
}

func message(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		From: &models.User{ID: 777, FirstName: "Alice"},
		Text: text,
	}}
}

func callback(chatID int64, data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-" + data,
		From: models.User{ID: 777},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: chatID}},
		},
	}}
}

func TestStart_SignsInWithTelegram(t *testing.T) {
	f := newFixture(t)

	f.h.handleStart(f.ctx(1), f.h.bot, message(1, "/start"))

	require.Len(t, f.backend.signIns, 1)
	assert.Equal(t, float64(777), f.backend.signIns[0]["telegram_id"])
	assert.Equal(t, "Alice", f.backend.signIns[0]["username"])

	text := f.transcript()
	assert.Contains(t, text, page.TextSignedIn)
	assert.Contains(t, text, "Привет")
	assert.Contains(t, text, "Использовано: 0 из 5")

	f.h.handleStart(f.ctx(1), f.h.bot, message(1, "/start"))
	assert.Len(t, f.backend.signIns, 1, "known chats are not signed in again")
}

func TestGenerate_PlainText(t *testing.T) {
	f := newFixture(t)
	f.h.handleStart(f.ctx(1), f.h.bot, message(1, "/start"))
	f.tg.Reset()

	f.h.HandleDefault(f.ctx(1), f.h.bot, message(1, "hello world in python"))

	require.Len(t, f.backend.generations, 1)
	assert.Equal(t, "hello world in python", f.backend.generations[0]["prompt"])
	assert.Equal(t, float64(42), f.backend.generations[0]["user_id"])

	text := f.transcript()
	assert.Contains(t, text, "```\nprint('hello')\n```")
	assert.Contains(t, text, page.TextGenerated)
	assert.Contains(t, text, "Осталось бесплатных запросов: 4 из 5")
	assert.Less(t, strings.Index(text, "print('hello')"), strings.Index(text, "Осталось бесплатных запросов"),
		"the quota line follows the code")
	assert.Equal(t, "print('hello')", f.reg.Get(f.h.bot, 1).Controller.Result())
}

func TestGenerate_BlankPrompt(t *testing.T) {
	f := newFixture(t)

	f.h.handleGenerate(f.ctx(1), f.h.bot, message(1, "/generate   "))

	assert.Empty(t, f.backend.generations)
	assert.Contains(t, f.transcript(), page.TextEmptyPrompt)
}

func TestGenerate_AnonymousHasNoUserID(t *testing.T) {
	f := newFixture(t)

	f.h.handleGenerate(f.ctx(1), f.h.bot, message(1, "/generate make a div"))

	require.Len(t, f.backend.generations, 1)
	_, ok := f.backend.generations[0]["user_id"]
	assert.False(t, ok)
}

func TestDefault_UnknownCommand(t *testing.T) {
	f := newFixture(t)

	f.h.HandleDefault(f.ctx(1), f.h.bot, message(1, "/nope"))

	assert.Empty(t, f.backend.generations)
	assert.Equal(t, []string{textUnknownCommand}, f.tg.Texts())
}

func TestResultCallbacks(t *testing.T) {
	f := newFixture(t)

	f.h.handleCopy(f.ctx(1), f.h.bot, callback(1, "code_copy"))
	answers := f.tg.Method("answerCallbackQuery")
	require.Len(t, answers, 1)
	assert.Equal(t, textNoResult, answers[0].Params["text"])

	f.h.handleGenerate(f.ctx(1), f.h.bot, message(1, "/generate x"))
	f.tg.Reset()

	f.h.handleCopy(f.ctx(1), f.h.bot, callback(1, "code_copy"))
	assert.Equal(t, []string{"```\nprint('hello')\n```"}, f.tg.Texts())

	f.h.handleDownload(f.ctx(1), f.h.bot, callback(1, "code_download"))
	docs := f.tg.Method("sendDocument")
	require.Len(t, docs, 1)
	assert.Equal(t, output.DefaultFilename, docs[0].Files["document"])

	f.h.handlePreview(f.ctx(1), f.h.bot, callback(1, "code_preview"))
	assert.Contains(t, f.transcript(), output.TextNoPreview)
}

func TestCopy_ReturnsCodeUnchanged(t *testing.T) {
	f := newFixture(t)
	f.backend.code = "doc = \"\"\"\n```go\nfmt.Println(1)\n```\n\"\"\""
	f.h.handleGenerate(f.ctx(1), f.h.bot, message(1, "/generate readme"))
	f.tg.Reset()

	f.h.handleCopy(f.ctx(1), f.h.bot, callback(1, "code_copy"))

	assert.Equal(t, []string{f.backend.code}, f.tg.Texts())
}

func TestPreview_HTML(t *testing.T) {
	f := newFixture(t)
	f.backend.code = "<html><head><title>Demo</title></head><body><p>Hi</p></body></html>"
	f.h.handleGenerate(f.ctx(1), f.h.bot, message(1, "/generate page"))
	f.tg.Reset()

	f.h.handlePreview(f.ctx(1), f.h.bot, callback(1, "code_preview"))

	assert.Contains(t, f.transcript(), "Заголовок: Demo")
}

func TestUpgrade(t *testing.T) {
	f := newFixture(t)

	f.h.handleUpgrade(f.ctx(1), f.h.bot, message(1, "/upgrade"))
	assert.Empty(t, f.backend.payments)
	assert.Contains(t, f.transcript(), page.TextAuthRequired)

	f.h.handleSignIn(f.ctx(1), f.h.bot, message(1, "/signin Alice Smith alice@example.com"))
	require.Len(t, f.backend.signIns, 1)
	assert.Equal(t, "Alice Smith", f.backend.signIns[0]["username"])
	assert.Equal(t, "alice@example.com", f.backend.signIns[0]["email"])
	f.tg.Reset()

	f.h.handleUpgradeCallback(f.ctx(1), f.h.bot, callback(1, "upgrade"))

	require.Len(t, f.backend.payments, 1)
	assert.Equal(t, float64(42), f.backend.payments[0]["user_id"])
	assert.Equal(t, "create_session", f.backend.payments[0]["action"])
	msgs := f.tg.Method("sendMessage")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Params["reply_markup"], "https://pay.example/abc")
}

func TestSignIn_MissingEmail(t *testing.T) {
	f := newFixture(t)

	f.h.handleSignIn(f.ctx(1), f.h.bot, message(1, "/signin alice"))

	assert.Empty(t, f.backend.signIns)
	assert.Contains(t, f.transcript(), page.TextEmptySignIn)
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)
	f.h.handleStart(f.ctx(1), f.h.bot, message(1, "/start"))

	f.h.handleSignOut(f.ctx(1), f.h.bot, message(1, "/signout"))

	_, ok := f.reg.Get(f.h.bot, 1).Session.UserID(context.Background())
	assert.False(t, ok)
	assert.Contains(t, f.transcript(), textSignedOut)
}

func TestPro(t *testing.T) {
	f := newFixture(t)

	f.h.handlePro(f.ctx(1), f.h.bot, message(1, "/pro"))

	assert.Contains(t, f.transcript(), "$9.99/мес")
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "a b", commandArgs("/generate  a b "))
	assert.Equal(t, "", commandArgs("/generate"))
}

func TestCommand_MatchesWholeWord(t *testing.T) {
	pro := command("/pro")

	assert.True(t, pro(message(1, "/pro")))
	assert.True(t, pro(message(1, "/pro@codegen_bot")))
	assert.True(t, pro(message(1, "/pro please")))
	assert.False(t, pro(message(1, "/profile")))
	assert.False(t, pro(message(1, "")))
	assert.False(t, pro(callback(1, "/pro")))
}
