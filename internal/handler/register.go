package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	tg "github.com/set-night/codegen/internal/telegram"
)

// Register registers all command and callback handlers on the bot instance.
// Plain text goes through HandleDefault, installed with bot.WithDefaultHandler.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandlerMatchFunc(command("/start"), h.handleStart)
	h.bot.RegisterHandlerMatchFunc(command("/help"), h.handleHelp)
	h.bot.RegisterHandlerMatchFunc(command("/profile"), h.handleProfile)
	h.bot.RegisterHandlerMatchFunc(command("/signin"), h.handleSignIn)
	h.bot.RegisterHandlerMatchFunc(command("/signout"), h.handleSignOut)
	h.bot.RegisterHandlerMatchFunc(command("/upgrade"), h.handleUpgrade)
	h.bot.RegisterHandlerMatchFunc(command("/pro"), h.handlePro)
	h.bot.RegisterHandlerMatchFunc(command("/generate"), h.handleGenerate)

	// Result callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackCopy, bot.MatchTypeExact, h.handleCopy)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackDownload, bot.MatchTypeExact, h.handleDownload)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackPreview, bot.MatchTypeExact, h.handlePreview)

	// Profile callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackUpgrade, bot.MatchTypeExact, h.handleUpgradeCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackProfile, bot.MatchTypeExact, h.handleProfileCallback)
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, tg.CallbackSignIn, bot.MatchTypeExact, h.handleSignInHelp)
}

// HandleDefault treats any non-command text as a prompt.
func (h *Handler) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		send(ctx, b, update.Message.Chat.ID, textUnknownCommand, nil)
		return
	}
	h.generate(ctx, b, update.Message.Chat.ID, update.Message.Text)
}

// command matches messages whose first word is name, with or without the
// "@botname" suffix. A prefix match would let "/pro" catch "/profile".
func command(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		fields := strings.Fields(update.Message.Text)
		if len(fields) == 0 {
			return false
		}
		word, _, _ := strings.Cut(fields[0], "@")
		return word == name
	}
}

// commandArgs returns the text after the command word.
func commandArgs(text string) string {
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}
