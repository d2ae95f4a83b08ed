// Package telegram delivers assistant responses to a Telegram chat.
package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Telegram allows roughly one message per second per chat; the limiter
// keeps reminder bursts under that.
var sendLimit = rate.Every(time.Second)

// Config holds configuration for the Telegram channel.
type Config struct {
	BotToken string
	ChatID   int64
}

// Channel sends responses to a fixed chat via the Bot API. It
// implements the assistant delivery contract.
type Channel struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

// NewChannel creates the channel and verifies the bot token against
// the Bot API.
func NewChannel(config *Config) (*Channel, error) {
	if config.BotToken == "" {
		return nil, errors.New("bot token required")
	}
	if config.ChatID == 0 {
		return nil, errors.New("chat id required")
	}

	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Telegram bot")
	}

	return &Channel{
		bot:     bot,
		chatID:  config.ChatID,
		limiter: rate.NewLimiter(sendLimit, 3),
	}, nil
}

// Deliver sends one response text to the configured chat.
func (c *Channel) Deliver(ctx context.Context, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait cancelled")
	}

	msg := tgbotapi.NewMessage(c.chatID, text)
	if _, err := c.bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send Telegram message")
	}
	return nil
}
