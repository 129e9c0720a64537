package bot

import "context"

// Identity is the originating user of an inbound event.
type Identity struct {
	ID        int64
	Username  string
	FirstName string
}

// MessageRef addresses a previously sent message for edit and delete.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Button is one inline keyboard button: a label and the callback payload
// delivered back when it is pressed.
type Button struct {
	Label string
	Data  string
}

// Inbound is a normalized Telegram update: either a command, a plain text
// message, or a callback button press.
type Inbound struct {
	ChatID int64
	From   Identity

	// Command is the bare command name ("start", "broadcast", ...); empty
	// for plain text and callbacks. Text carries the message text, or the
	// command arguments when Command is set.
	Command string
	Text    string

	// CallbackID is non-empty for button presses; CallbackData is the
	// button payload and MenuRef the message carrying the keyboard.
	CallbackID   string
	CallbackData string
	MenuRef      MessageRef
}

// IsCallback reports whether the event is a button press.
func (ev Inbound) IsCallback() bool {
	return ev.CallbackID != ""
}

// Chat is the outbound capability set the orchestrator consumes from the
// chat platform. Edit and delete failures are cosmetic; the orchestrator
// ignores them centrally.
type Chat interface {
	SendText(ctx context.Context, chatID int64, text string) (MessageRef, error)
	SendMenu(ctx context.Context, chatID int64, text string, buttons [][]Button) (MessageRef, error)
	SendVideo(ctx context.Context, chatID int64, path, filename string) error
	SendAudio(ctx context.Context, chatID int64, path, filename string) error
	EditText(ctx context.Context, ref MessageRef, text string) error
	Delete(ctx context.Context, ref MessageRef) error
	AnswerCallback(ctx context.Context, callbackID string) error
}
