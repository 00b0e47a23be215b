package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/recipebox/internal/share"
)

// PackageHandler imports a package received from the chat and returns the
// reply to post back.
type PackageHandler func(ctx context.Context, p *share.Package) (string, error)

const helpText = "Send a " + share.FileExt + " file to import recipes, meal plans and grocery lists."

// maxPackageSize bounds downloads of shared package files.
const maxPackageSize = 20 << 20

// Listen long-polls for updates until ctx is done. Updates are handled one
// at a time; messages from chats other than the bound one are ignored.
func (b *Bot) Listen(ctx context.Context, handle PackageHandler) error {
	// Delete webhook if exists and use polling
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.WithField("chat_id", b.chatID).Info("Listening for shared packages")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping bot...")
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update, handle)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update, handle PackageHandler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Panic in update handler: %v", r)
		}
	}()

	msg := update.Message
	if msg == nil {
		return
	}
	log := b.logger.WithFields(logrus.Fields{
		"chat_id":    msg.Chat.ID,
		"message_id": msg.MessageID,
	})
	if b.chatID != 0 && msg.Chat.ID != b.chatID {
		log.Warn("Ignoring message from unbound chat")
		return
	}

	switch {
	case msg.Document != nil:
		reply := b.handleDocument(ctx, msg.Document, handle, log)
		if err := b.reply(msg.Chat.ID, reply); err != nil {
			log.WithError(err).Error("Failed to reply")
		}
	case msg.IsCommand() && (msg.Command() == "start" || msg.Command() == "help"):
		if err := b.reply(msg.Chat.ID, helpText); err != nil {
			log.WithError(err).Error("Failed to reply")
		}
	}
}

func (b *Bot) handleDocument(ctx context.Context, doc *tgbotapi.Document, handle PackageHandler, log *logrus.Entry) string {
	if !strings.HasSuffix(strings.ToLower(doc.FileName), share.FileExt) {
		return "This file is not a recipebox share package."
	}
	if doc.FileSize > maxPackageSize {
		return "This package is too large to import."
	}

	p, err := b.downloadPackage(ctx, doc.FileID)
	if err != nil {
		log.WithError(err).WithField("file", doc.FileName).Error("Failed to read shared package")
		return "Could not read the package: " + err.Error()
	}
	reply, err := handle(ctx, p)
	if err != nil {
		log.WithError(err).WithField("package_id", p.ID).Error("Failed to import shared package")
		return "Import failed: " + err.Error()
	}
	log.WithField("package_id", p.ID).Info("Imported shared package")
	return reply
}

func (b *Bot) downloadPackage(ctx context.Context, fileID string) (*share.Package, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	return share.Decode(io.LimitReader(resp.Body, maxPackageSize))
}
