package infrastructure

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/yourusername/clipcourier/internal/domain"
)

// TelegramTransport binds the bot to Telegram via long polling and
// implements the outbound chat transport.
type TelegramTransport struct {
	bot    *telebot.Bot
	logger *zap.Logger
}

// NewTelegramTransport connects to the Telegram Bot API.
func NewTelegramTransport(config *domain.BotConfig, logger *zap.Logger) (*TelegramTransport, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("bot token not configured")
	}
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  config.Token,
		Poller: &telebot.LongPoller{Timeout: config.PollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &TelegramTransport{bot: bot, logger: logger}, nil
}

// Listen dispatches every inbound text message to handle, one goroutine per
// message so concurrent jobs don't serialize. Blocks until ctx is cancelled.
func (t *TelegramTransport) Listen(ctx context.Context, handle func(domain.Message)) {
	t.bot.Handle(telebot.OnText, func(c telebot.Context) error {
		msg := domain.Message{
			ChatID:    c.Chat().ID,
			MessageID: c.Message().ID,
			Text:      c.Message().Text,
		}
		go handle(msg)
		return nil
	})

	go func() {
		<-ctx.Done()
		t.bot.Stop()
	}()

	t.logger.Info("listening for messages", zap.String("bot", t.bot.Me.Username))
	t.bot.Start()
}

// SendText sends a plain message and returns its id for later edits.
func (t *TelegramTransport) SendText(chatID int64, text string) (int, error) {
	msg, err := t.bot.Send(telebot.ChatID(chatID), text)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// EditText replaces the text of a previously sent message.
func (t *TelegramTransport) EditText(chatID int64, messageID int, text string) error {
	_, err := t.bot.Edit(messageRef{chatID: chatID, messageID: messageID}, text)
	return err
}

// SendVideo delivers a local file as a video attachment.
func (t *TelegramTransport) SendVideo(chatID int64, path string) error {
	video := &telebot.Video{
		File:     telebot.FromDisk(path),
		FileName: filepath.Base(path),
		MIME:     "video/mp4",
	}
	_, err := t.bot.Send(telebot.ChatID(chatID), video)
	return err
}

// messageRef satisfies telebot.Editable for messages we only know by id.
type messageRef struct {
	chatID    int64
	messageID int
}

func (m messageRef) MessageSig() (string, int64) {
	return strconv.Itoa(m.messageID), m.chatID
}
