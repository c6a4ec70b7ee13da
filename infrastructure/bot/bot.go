// Package bot provides the Telegram front end for the question-answering
// pipeline.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AbokiLearn/segun/application/service"
	"github.com/AbokiLearn/segun/internal/log"
)

// Canned replies.
const (
	startReply = "Hi! I'm the AbokiLearn teaching assistant. Ask me anything " +
		"about the JavaScript course with /question."
	helpReply = "Commands:\n" +
		"/question <your question> - ask about the course material\n" +
		"/help - show this message"
	unknownReply  = "I don't know that command. Try /help."
	emptyQuestion = "Please put your question after the command, like:\n/question how do promises work?"
	workingOnIt   = "Working on it..."
)

// Answerer runs the question-answering pipeline.
type Answerer interface {
	Ask(ctx context.Context, raw string) (service.Result, error)
}

// Bot polls Telegram for updates and answers /question commands.
type Bot struct {
	api      *tgbotapi.BotAPI
	answerer Answerer
	logger   *log.Logger
}

// NewBot creates a Bot from a bot token.
func NewBot(token string, answerer Answerer, logger *log.Logger) (*Bot, error) {
	if logger == nil {
		logger = log.Default()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	logger.Info("telegram bot authorized", "username", api.Self.UserName)
	return &Bot{api: api, answerer: answerer, logger: logger}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.api.GetUpdatesChan(cfg)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.reply(msg.Chat.ID, "Use /question followed by your question. See /help.")
		return
	}

	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, startReply)
	case "help":
		b.reply(msg.Chat.ID, helpReply)
	case "question":
		b.handleQuestion(ctx, msg)
	default:
		b.reply(msg.Chat.ID, unknownReply)
	}
}

// handleQuestion acknowledges immediately, then edits the acknowledgement
// into the answer once the pipeline finishes.
func (b *Bot) handleQuestion(ctx context.Context, msg *tgbotapi.Message) {
	question := strings.TrimSpace(msg.CommandArguments())
	if question == "" {
		b.reply(msg.Chat.ID, emptyQuestion)
		return
	}

	placeholder, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, workingOnIt))
	if err != nil {
		b.logger.Error("send placeholder failed", "chat_id", msg.Chat.ID, "error", err)
		return
	}

	result, err := b.answerer.Ask(ctx, question)
	if err != nil {
		b.logger.ErrorContext(ctx, "question pipeline failed",
			"chat_id", msg.Chat.ID, "error", err)
		b.edit(msg.Chat.ID, placeholder.MessageID, service.UserFacingMessage)
		return
	}

	b.edit(msg.Chat.ID, placeholder.MessageID, result.Formatted())
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("send message failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.logger.Error("edit message failed", "chat_id", chatID, "error", err)
	}
}
