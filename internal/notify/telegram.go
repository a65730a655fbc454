package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSender interface {
	SendMessage(chatID int64, text string) error
}

type telegramSender struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramSender connects to the Bot API. An empty token returns a
// no-op sender so deployments without a bot keep working.
func NewTelegramSender(token string) (TelegramSender, error) {
	if token == "" {
		return noopTelegram{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return &telegramSender{bot: bot}, nil
}

func (s *telegramSender) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

type noopTelegram struct{}

func (noopTelegram) SendMessage(int64, string) error { return nil }
