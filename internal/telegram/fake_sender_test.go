package telegram

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type sentDocument struct {
	chatID   any
	filename string
	data     string
	caption  string
}

type fakeSender struct {
	mu        sync.Mutex
	messages  []*bot.SendMessageParams
	documents []sentDocument
	actions   int
	answers   []*bot.AnswerCallbackQueryParams

	// rejectMarkdown fails every message that has a parse mode set
	rejectMarkdown bool
	err            error
}

func (f *fakeSender) SendMessage(_ context.Context, p *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.rejectMarkdown && p.ParseMode != "" {
		return nil, errors.New("Bad Request: can't parse entities")
	}
	cp := *p
	f.messages = append(f.messages, &cp)
	return &models.Message{ID: len(f.messages)}, nil
}

func (f *fakeSender) SendDocument(_ context.Context, p *bot.SendDocumentParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	upload := p.Document.(*models.InputFileUpload)
	data, _ := io.ReadAll(upload.Data)
	f.documents = append(f.documents, sentDocument{p.ChatID, upload.Filename, string(data), p.Caption})
	return &models.Message{ID: 1}, nil
}

func (f *fakeSender) SendChatAction(context.Context, *bot.SendChatActionParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions++
	return true, nil
}

func (f *fakeSender) AnswerCallbackQuery(_ context.Context, p *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, p)
	return true, nil
}

func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.messages))
	for i, m := range f.messages {
		out[i] = m.Text
	}
	return out
}
