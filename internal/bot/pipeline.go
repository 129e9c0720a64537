package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ptmcplay/ptbot/internal/extract"
	"github.com/ptmcplay/ptbot/internal/media"
)

// runDownload executes the acquisition / size / transcode / delivery
// pipeline for one request. It runs on a pool worker; the workspace is
// released on every exit path.
func (s *Service) runDownload(ctx context.Context, req DownloadRequest, status MessageRef) {
	log := s.logger.With(
		slog.Int64("user_id", req.From.ID),
		slog.String("role", string(req.Role)),
		slog.String("platform", req.Platform.String()),
	)

	ws, err := s.workspaces.Acquire()
	if err != nil {
		log.Error("workspace acquire failed", slog.Any("error", err))
		s.editStatus(ctx, status, msgDownloadFailed)
		return
	}
	defer ws.Release()

	title, err := s.extractor.Extract(ctx, req.URL, req.Role, ws.Dir())
	if err != nil {
		log.Warn("extraction failed", slog.String("url", req.URL), slog.Any("error", err))
		s.editStatus(ctx, status, msgDownloadFailed)
		return
	}

	artifact, err := extract.SelectArtifact(ws.Dir())
	if err != nil {
		// A workspace with nothing usable in it counts as a failed
		// extraction, whatever yt-dlp reported.
		if !errors.Is(err, extract.ErrNoArtifact) {
			log.Error("artifact selection failed", slog.Any("error", err))
		}
		s.editStatus(ctx, status, msgDownloadFailed)
		return
	}

	final, err := s.policy.Apply(ctx, req.Role, artifact)
	if err != nil {
		log.Error("policy failed", slog.Any("error", err))
		s.editStatus(ctx, status, msgDownloadFailed)
		return
	}

	size := int64(0)
	if info, statErr := os.Stat(final); statErr == nil {
		size = info.Size()
	}
	s.editStatus(ctx, status, fmt.Sprintf("✅ Ready (%s)", media.HumanSize(size)))

	// The extracted title becomes the filename verbatim.
	filename := title + req.Role.Ext()
	if req.Role == media.RoleAudio {
		err = s.chat.SendAudio(ctx, req.ChatID, final, filename)
	} else {
		err = s.chat.SendVideo(ctx, req.ChatID, final, filename)
	}
	if err != nil {
		log.Error("delivery failed", slog.Any("error", err))
		s.editStatus(ctx, status, msgDownloadFailed)
		return
	}

	log.Info("delivered",
		slog.String("title", title),
		slog.String("size", media.HumanSize(size)))
}

// editStatus updates the per-request status message. Edit failures are
// cosmetic and ignored here, in one place.
func (s *Service) editStatus(ctx context.Context, ref MessageRef, text string) {
	if err := s.chat.EditText(ctx, ref, text); err != nil {
		s.logger.Debug("status edit failed", slog.Any("error", err))
	}
}
