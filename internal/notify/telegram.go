package notify

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Telegram sends messages through the Telegram bot API.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string, debug bool) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}
	bot.Debug = debug
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) Notify(destination, text string) {
	chatID, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		log.Errorf("invalid telegram destination %q: %v", destination, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		log.Errorf("failed to send telegram message to %s: %v", destination, err)
		return
	}
	log.Debugf("notification sent to %s", destination)
}
