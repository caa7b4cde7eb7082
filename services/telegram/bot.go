// File: services/telegram/bot.go
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v4"

	"jobbot/models"
)

const (
	sessionPrefix = "tg:"
	buttonsPerRow = 2
	replyTimeout  = 60 * time.Second
)

// Chat is the conversation surface the bot relays to.
type Chat interface {
	ProcessMessage(ctx context.Context, sessionID, text string, stateHint models.ConversationState) *models.ChatResponse
	Reset(ctx context.Context, sessionID string) (bool, error)
}

// Bot relays Telegram chats to the dialogue engine. Each chat id is one
// session; quick replies become a reply keyboard.
type Bot struct {
	bot    *tele.Bot
	chat   Chat
	logger *zap.Logger
}

func NewBot(token string, pollTimeout time.Duration, chat Chat, logger *zap.Logger) (*Bot, error) {
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	b := &Bot{chat: chat, logger: logger}
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			logger.Error("Telegram handler failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	b.bot = bot

	bot.Use(b.recoverMiddleware)
	bot.Handle("/start", b.handleStart)
	bot.Handle("/reset", b.handleReset)
	bot.Handle(tele.OnText, b.handleText)
	return b, nil
}

// Start polls until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("Telegram bot started", zap.String("username", b.bot.Me.Username))
	b.bot.Start()
}

func (b *Bot) Stop() { b.bot.Stop() }

// SessionID maps a chat onto its conversation.
func SessionID(chatID int64) string {
	return sessionPrefix + strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	id := SessionID(c.Chat().ID)
	if _, err := b.chat.Reset(ctx, id); err != nil {
		b.logger.Warn("Failed to reset telegram session", zap.String("sessionId", id), zap.Error(err))
	}
	return b.relay(ctx, c, id, c.Text())
}

func (b *Bot) handleReset(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	id := SessionID(c.Chat().ID)
	if _, err := b.chat.Reset(ctx, id); err != nil {
		return fmt.Errorf("reset %s: %w", id, err)
	}
	return c.Send("Conversation reset. Send any message to start a new booking.", Keyboard(nil))
}

func (b *Bot) handleText(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()
	return b.relay(ctx, c, SessionID(c.Chat().ID), c.Text())
}

func (b *Bot) relay(ctx context.Context, c tele.Context, sessionID, text string) error {
	resp := b.chat.ProcessMessage(ctx, sessionID, text, "")
	return c.Send(resp.Message, Keyboard(resp.SuggestedActions))
}

func (b *Bot) recoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Telegram handler panicked", zap.Any("panic", r))
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return next(c)
	}
}

// Keyboard lays quick replies out in rows of two. No replies removes any
// keyboard left from an earlier message.
func Keyboard(actions []string) *tele.ReplyMarkup {
	if len(actions) == 0 {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	var rows []tele.Row
	for i := 0; i < len(actions); i += buttonsPerRow {
		end := i + buttonsPerRow
		if end > len(actions) {
			end = len(actions)
		}
		var buttons []tele.Btn
		for _, label := range actions[i:end] {
			buttons = append(buttons, markup.Text(label))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Reply(rows...)
	return markup
}
