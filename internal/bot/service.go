// Package bot is the orchestrator: it consumes inbound chat events, routes
// commands, runs the download pipeline on a worker pool and fans broadcasts
// out over the user registry.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ptmcplay/ptbot/internal/callback"
	"github.com/ptmcplay/ptbot/internal/classify"
	"github.com/ptmcplay/ptbot/internal/config"
	"github.com/ptmcplay/ptbot/internal/media"
	"github.com/ptmcplay/ptbot/internal/registry"
	"github.com/ptmcplay/ptbot/internal/transcode"
	"github.com/ptmcplay/ptbot/internal/workspace"
)

// DownloadRequest is one resolved unit of download work, built from a text
// message or a decoded callback token and consumed exactly once.
type DownloadRequest struct {
	URL      string
	Role     media.Role
	Platform classify.Platform
	ChatID   int64
	From     Identity
}

// Service wires the components together and drives the update loop.
type Service struct {
	cfg        config.Config
	logger     *slog.Logger
	chat       Chat
	users      *registry.Store
	workspaces *workspace.Manager
	extractor  Extractor
	policy     *transcode.Policy
	pool       *pool
}

// Extractor mirrors extract.Extractor; declared here so the orchestrator
// can be exercised without a yt-dlp binary.
type Extractor interface {
	Extract(ctx context.Context, url string, role media.Role, dir string) (title string, err error)
}

// NewService assembles the orchestrator.
func NewService(
	cfg config.Config,
	log *slog.Logger,
	chat Chat,
	users *registry.Store,
	workspaces *workspace.Manager,
	extractor Extractor,
	policy *transcode.Policy,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "bot")),
		chat:       chat,
		users:      users,
		workspaces: workspaces,
		extractor:  extractor,
		policy:     policy,
		pool:       newPool(cfg.Download.Workers),
	}
}

// Run consumes events until ctx is cancelled or the stream closes. Each
// event is dispatched on its own goroutine; download work moves onto the
// worker pool from there.
func (s *Service) Run(ctx context.Context, events <-chan Inbound) error {
	defer s.pool.close()

	s.logger.Info("bot started", slog.Int("workers", s.cfg.Download.Workers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			go s.dispatch(ctx, ev)
		}
	}
}

func (s *Service) dispatch(ctx context.Context, ev Inbound) {
	if err := s.handle(ctx, ev); err != nil {
		s.logger.Error("handle update failed",
			slog.Int64("user_id", ev.From.ID),
			slog.String("command", ev.Command),
			slog.Any("error", err))
	}
}

// handle routes one event. The registry upsert happens before any other
// work, on every interaction, regardless of the pipeline outcome; an
// upsert failure aborts the request.
func (s *Service) handle(ctx context.Context, ev Inbound) error {
	if err := s.users.Upsert(ctx, toUser(ev.From)); err != nil {
		return err
	}

	if ev.IsCallback() {
		return s.handleCallback(ctx, ev)
	}
	switch ev.Command {
	case "start":
		return s.handleStart(ctx, ev)
	case "help":
		return s.handleHelp(ctx, ev)
	case "stats":
		return s.handleStats(ctx, ev)
	case "broadcast":
		return s.handleBroadcast(ctx, ev)
	case "":
		return s.handleLink(ctx, ev)
	default:
		return s.handleHelp(ctx, ev)
	}
}

func (s *Service) handleStart(ctx context.Context, ev Inbound) error {
	buttons := [][]Button{{{Label: labelHelp, Data: helpCallbackData}}}
	if _, err := s.chat.SendMenu(ctx, ev.ChatID, msgWelcome, buttons); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

func (s *Service) handleHelp(ctx context.Context, ev Inbound) error {
	if _, err := s.chat.SendText(ctx, ev.ChatID, msgHelp); err != nil {
		return fmt.Errorf("send help: %w", err)
	}
	return nil
}

// handleLink classifies a free-text message as a candidate URL. Unsupported
// links are rejected before any workspace exists.
func (s *Service) handleLink(ctx context.Context, ev Inbound) error {
	url := strings.TrimSpace(ev.Text)

	switch classify.Classify(url) {
	case classify.YouTube:
		return s.offerFormats(ctx, ev.ChatID, url)
	case classify.ShortForm:
		req := DownloadRequest{
			URL:      url,
			Role:     media.RoleVideo,
			Platform: classify.ShortForm,
			ChatID:   ev.ChatID,
			From:     ev.From,
		}
		return s.enqueue(ctx, req)
	default:
		if _, err := s.chat.SendText(ctx, ev.ChatID, msgUnsupported); err != nil {
			return fmt.Errorf("send rejection: %w", err)
		}
		return nil
	}
}

// offerFormats presents the two-step format menu without downloading
// anything. The buttons carry self-describing tokens; nothing about the
// request is kept in memory while the prompt is pending.
func (s *Service) offerFormats(ctx context.Context, chatID int64, url string) error {
	videoToken := callback.Action{Platform: callback.PlatformYouTube, Role: media.RoleVideo, URL: url}
	audioToken := callback.Action{Platform: callback.PlatformYouTube, Role: media.RoleAudio, URL: url}
	buttons := [][]Button{{
		{Label: labelVideo, Data: videoToken.Encode()},
		{Label: labelAudio, Data: audioToken.Encode()},
	}}
	if _, err := s.chat.SendMenu(ctx, chatID, msgChooseFormat, buttons); err != nil {
		return fmt.Errorf("send format menu: %w", err)
	}
	return nil
}

// handleCallback resolves a button press: the welcome help button, or an
// encoded download token. A token that fails to decode gets its own user
// message, distinct from a failed download.
func (s *Service) handleCallback(ctx context.Context, ev Inbound) error {
	// Stops the client's loading spinner; failure is cosmetic.
	_ = s.chat.AnswerCallback(ctx, ev.CallbackID)

	if ev.CallbackData == helpCallbackData {
		return s.handleHelp(ctx, ev)
	}

	action, err := callback.Decode(ev.CallbackData)
	if err != nil {
		s.logger.Warn("bad callback token", slog.Int64("user_id", ev.From.ID), slog.Any("error", err))
		if _, sendErr := s.chat.SendText(ctx, ev.ChatID, msgBadCallback); sendErr != nil {
			return fmt.Errorf("send token rejection: %w", sendErr)
		}
		return nil
	}

	// The format menu has served its purpose; removing it is best effort.
	_ = s.chat.Delete(ctx, ev.MenuRef)

	req := DownloadRequest{
		URL:      action.URL,
		Role:     action.Role,
		Platform: classify.YouTube,
		ChatID:   ev.ChatID,
		From:     ev.From,
	}
	return s.enqueue(ctx, req)
}

// enqueue posts the status message and hands the request to the pool.
func (s *Service) enqueue(ctx context.Context, req DownloadRequest) error {
	status, err := s.chat.SendText(ctx, req.ChatID, msgDownloading)
	if err != nil {
		return fmt.Errorf("send status: %w", err)
	}
	if !s.pool.submit(func() { s.runDownload(ctx, req, status) }) {
		return fmt.Errorf("bot is shutting down")
	}
	return nil
}

func (s *Service) handleStats(ctx context.Context, ev Inbound) error {
	if !s.cfg.Admin.IsAdmin(ev.From.ID) {
		_, err := s.chat.SendText(ctx, ev.ChatID, msgNotAdmin)
		return err
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Bot stats*\n\n👥 Users: %d\n\n", len(users))
	for _, user := range users {
		fmt.Fprintf(&b, "• %s (@%s) — `%d`\n", user.FirstName, user.Username, user.ID)
	}
	if _, err := s.chat.SendText(ctx, ev.ChatID, b.String()); err != nil {
		return fmt.Errorf("send stats: %w", err)
	}
	return nil
}

func (s *Service) handleBroadcast(ctx context.Context, ev Inbound) error {
	if !s.cfg.Admin.IsAdmin(ev.From.ID) {
		_, err := s.chat.SendText(ctx, ev.ChatID, msgNotAdmin)
		return err
	}

	text := strings.TrimSpace(ev.Text)
	if text == "" {
		_, err := s.chat.SendText(ctx, ev.ChatID, msgBroadcastUsage)
		return err
	}

	recipients, err := s.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list recipients: %w", err)
	}

	sent := s.Broadcast(ctx, text, recipients)
	if _, err := s.chat.SendText(ctx, ev.ChatID, fmt.Sprintf("✅ Delivered to %d users", sent)); err != nil {
		return fmt.Errorf("send broadcast summary: %w", err)
	}
	return nil
}

func toUser(id Identity) registry.User {
	username := id.Username
	if username == "" {
		username = "NoUsername"
	}
	firstName := id.FirstName
	if firstName == "" {
		firstName = "NoName"
	}
	return registry.User{ID: id.ID, Username: username, FirstName: firstName}
}
