// Package bot wires the conversation engine to Telegram long polling.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kambuka/storagebot/internal/engine"
	"github.com/kambuka/storagebot/internal/logger"
)

// Bot receives Telegram updates and relays them to the engine.
type Bot struct {
	api *tgbotapi.BotAPI
	eng *engine.Engine
	log *slog.Logger
}

// New creates the transport.
func New(token string, debug bool, eng *engine.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	api.Debug = debug

	return &Bot{
		api: api,
		eng: eng,
		log: logger.L().With("component", "bot", "username", api.Self.UserName),
	}, nil
}

// Run polls for updates until the context is cancelled. Each message is
// handled in its own goroutine; the engine serializes turns per user.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("polling stopped")
			return ctx.Err()

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage maps one inbound message to an engine call and sends the reply.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	var reply engine.Reply
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			reply = b.eng.Greeting()
		case "cancel":
			reply = b.eng.Cancel(userID)
		case "list":
			reply = b.eng.ListAll(ctx)
		default:
			reply = b.eng.Greeting()
		}
	} else {
		reply = b.eng.Handle(ctx, userID, msg.Text)
	}

	b.send(msg.Chat.ID, reply)
}

// send delivers one reply, translating the keyboard hint to Telegram markup.
func (b *Bot) send(chatID int64, reply engine.Reply) {
	out := tgbotapi.NewMessage(chatID, reply.Text)

	switch reply.Keyboard {
	case engine.KeyboardMenu:
		out.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(engine.BtnSearch)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(engine.BtnAdd)),
		)
	case engine.KeyboardYesNo:
		out.ReplyMarkup = tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton("Да"),
				tgbotapi.NewKeyboardButton("Нет"),
			),
		)
	}

	if _, err := b.api.Send(out); err != nil {
		b.log.Error("send failed", "chat", chatID, "error", err)
	}
}
