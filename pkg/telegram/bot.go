// Package telegram is a chat front end for planning courses.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/korjavin/mealclock/pkg/logger"
)

// Bot represents a Telegram bot instance
type Bot struct {
	api     *tgbotapi.BotAPI
	planner *Planner
	logger  *logger.Logger
}

// New creates a new Telegram bot instance
func New(token string, planner *Planner) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	bot := &Bot{
		api:     api,
		planner: planner,
		logger:  logger.New("telegram"),
	}

	bot.logger.Info("Telegram bot created: @%s", api.Self.UserName)
	return bot, nil
}

// Start listens for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping Telegram bot")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}

	chatLog := b.logger.With(fmt.Sprintf("%d", msg.Chat.ID))
	user := ""
	if msg.From != nil {
		user = msg.From.UserName
	}
	chatLog.Info("Handling command: %s from user %s", msg.Command(), user)

	reply := b.planner.Handle(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
	if _, err := b.SendMessage(msg.Chat.ID, reply); err != nil {
		chatLog.Error("Failed to send reply: %v", err)
	}
}

// SendMessage sends a text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	return b.api.Send(msg)
}
