package telegram

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SendDocument uploads data as a file named filename.
func SendDocument(ctx context.Context, s Sender, chatID int64, filename string, data []byte, caption string) error {
	_, err := s.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("send document %s: %w", filename, err)
	}
	return nil
}
