package bot

import (
	"context"
	"log/slog"

	"github.com/ptmcplay/ptbot/internal/registry"
)

// Broadcast sends text to every recipient sequentially and returns the
// number of successful deliveries. Per-recipient failures (blocked bot,
// deleted account, transient network) are logged and skipped; they never
// stop the iteration and never surface as an error.
func (s *Service) Broadcast(ctx context.Context, text string, recipients []registry.User) int {
	sent := 0
	for _, recipient := range recipients {
		if _, err := s.chat.SendText(ctx, recipient.ID, text); err != nil {
			s.logger.Debug("broadcast delivery failed",
				slog.Int64("user_id", recipient.ID),
				slog.Any("error", err))
			continue
		}
		sent++
	}
	s.logger.Info("broadcast finished",
		slog.Int("recipients", len(recipients)),
		slog.Int("sent", sent))
	return sent
}
