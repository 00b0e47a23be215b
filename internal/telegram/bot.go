package telegram

import (
	"context"
	"fmt"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/share"
)

// maxMessageLen is Telegram's limit for a text message.
const maxMessageLen = 4096

// Bot wraps the Telegram bot API. It sends share bundles to one chat and
// receives packages shared into that chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
	chatID int64
}

// NewBot creates a bot bound to chatID.
func NewBot(token string, chatID int64, logger *logrus.Logger) (*Bot, error) {
	return NewBotWithEndpoint(token, tgbotapi.APIEndpoint, chatID, logger)
}

// NewBotWithEndpoint creates a bot that talks to a custom Bot API endpoint,
// such as a self-hosted server.
func NewBotWithEndpoint(token, endpoint string, chatID int64, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		logger: logger,
		chatID: chatID,
	}, nil
}

func (b *Bot) Name() string { return "telegram" }

// Send posts the package document with a caption, then the PDF when present,
// then the plain-text rendering split into message-sized chunks.
func (b *Bot) Send(ctx context.Context, bundle *share.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{
		Name:  bundle.Name + share.FileExt,
		Bytes: bundle.Document,
	})
	doc.Caption = bundle.Caption
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send share package: %w", err)
	}

	if len(bundle.PDF) > 0 {
		pdf := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: bundle.Name + ".pdf", Bytes: bundle.PDF})
		if _, err := b.api.Send(pdf); err != nil {
			return fmt.Errorf("failed to send pdf: %w", err)
		}
	}

	for _, chunk := range splitMessage(bundle.Text, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.SendMessage(chunk); err != nil {
			return err
		}
	}

	b.logger.WithFields(logrus.Fields{
		"chat_id": b.chatID,
		"name":    bundle.Name,
		"bytes":   len(bundle.Document),
	}).Info("Share sent to Telegram")
	return nil
}

// SendMessage sends plain text to the bound chat.
func (b *Bot) SendMessage(text string) error {
	return b.reply(b.chatID, text)
}

func (b *Bot) reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// splitMessage cuts text into pieces of at most limit bytes, preferring
// line breaks and never splitting a UTF-8 sequence.
func splitMessage(text string, limit int) []string {
	var out []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		for i := cut - 1; i >= limit/2; i-- {
			if text[i] == '\n' {
				cut = i + 1
				break
			}
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}
