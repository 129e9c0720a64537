package bot

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 30

// Telegram implements Chat over the Bot API and produces the inbound event
// stream via long polling.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger

	updates tgbotapi.UpdatesChannel
}

// NewTelegram authenticates against the Bot API.
func NewTelegram(token string, log *slog.Logger) (*Telegram, error) {
	if log == nil {
		log = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Telegram{
		api:    api,
		logger: log.With(slog.String("adapter", "telegram")),
	}, nil
}

// Inbound starts long polling and returns the normalized event stream.
func (t *Telegram) Inbound(ctx context.Context) <-chan Inbound {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	t.updates = t.api.GetUpdatesChan(cfg)

	events := make(chan Inbound)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-t.updates:
				if !ok {
					return
				}
				ev, ok := toInbound(update)
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events
}

// Stop ends long polling and drains the update channel so the library's
// polling goroutine can exit cleanly.
func (t *Telegram) Stop() {
	t.api.StopReceivingUpdates()
	if t.updates != nil {
		for range t.updates {
		}
	}
}

func toInbound(update tgbotapi.Update) (Inbound, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil {
			return Inbound{}, false
		}
		return Inbound{
			ChatID:       cq.Message.Chat.ID,
			From:         toIdentity(cq.From),
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
			MenuRef: MessageRef{
				ChatID:    cq.Message.Chat.ID,
				MessageID: cq.Message.MessageID,
			},
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return Inbound{}, false
	}
	ev := Inbound{
		ChatID: msg.Chat.ID,
		From:   toIdentity(msg.From),
		Text:   msg.Text,
	}
	if msg.IsCommand() {
		ev.Command = msg.Command()
		ev.Text = msg.CommandArguments()
	}
	return ev, true
}

func toIdentity(user *tgbotapi.User) Identity {
	return Identity{
		ID:        user.ID,
		Username:  user.UserName,
		FirstName: user.FirstName,
	}
}

// SendText sends a markdown text message.
func (t *Telegram) SendText(_ context.Context, chatID int64, text string) (MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := t.api.Send(msg)
	if err != nil {
		return MessageRef{}, fmt.Errorf("send text: %w", err)
	}
	return MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// SendMenu sends a markdown text message with an inline keyboard.
func (t *Telegram) SendMenu(_ context.Context, chatID int64, text string, buttons [][]Button) (MessageRef, error) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		keyboardRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
		}
		rows = append(rows, keyboardRow)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := t.api.Send(msg)
	if err != nil {
		return MessageRef{}, fmt.Errorf("send menu: %w", err)
	}
	return MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// SendVideo uploads path as a video attachment named filename.
func (t *Telegram) SendVideo(_ context.Context, chatID int64, path, filename string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	video := tgbotapi.NewVideo(chatID, tgbotapi.FileReader{Name: filename, Reader: file})
	if _, err := t.api.Send(video); err != nil {
		return fmt.Errorf("send video: %w", err)
	}
	return nil
}

// SendAudio uploads path as an audio attachment named filename.
func (t *Telegram) SendAudio(_ context.Context, chatID int64, path, filename string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileReader{Name: filename, Reader: file})
	if _, err := t.api.Send(audio); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}

// EditText replaces the text of a previously sent message.
func (t *Telegram) EditText(_ context.Context, ref MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := t.api.Send(edit); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// Delete removes a previously sent message.
func (t *Telegram) Delete(_ context.Context, ref MessageRef) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its
// loading indicator.
func (t *Telegram) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}
