package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ptmcplay/ptbot/internal/media"
)

// Policy decides whether an artifact gets re-encoded before delivery. It is
// a single evaluation: one attempt, no second pass, and a failed transcode
// degrades to the original file. The size ceiling is therefore best effort:
// a transcoded file still over the threshold ships as is.
type Policy struct {
	VideoMaxBytes int64
	AudioMaxBytes int64

	transcoder Transcoder
	logger     *slog.Logger
}

// NewPolicy builds a Policy around a transcoder.
func NewPolicy(videoMaxBytes, audioMaxBytes int64, tc Transcoder, log *slog.Logger) *Policy {
	if log == nil {
		log = slog.Default()
	}
	return &Policy{
		VideoMaxBytes: videoMaxBytes,
		AudioMaxBytes: audioMaxBytes,
		transcoder:    tc,
		logger:        log.With(slog.String("component", "policy")),
	}
}

// Threshold returns the delivery ceiling for a role.
func (p *Policy) Threshold(role media.Role) int64 {
	if role == media.RoleAudio {
		return p.AudioMaxBytes
	}
	return p.VideoMaxBytes
}

// Apply returns the path to deliver for inputPath. Files at or under the
// threshold pass through; oversized files get one transcode attempt into a
// sibling file in the same workspace. Transcode failure is not an error:
// the original path comes back and the degradation is logged.
func (p *Policy) Apply(ctx context.Context, role media.Role, inputPath string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}
	if info.Size() <= p.Threshold(role) {
		return inputPath, nil
	}

	outputPath := filepath.Join(filepath.Dir(inputPath), "transcoded"+role.Ext())
	if err := p.transcoder.Transcode(ctx, inputPath, outputPath, role); err != nil {
		p.logger.Warn("transcode failed, delivering original",
			slog.String("input", inputPath),
			slog.String("size", media.HumanSize(info.Size())),
			slog.Any("error", err))
		return inputPath, nil
	}

	p.logger.Info("transcoded oversized artifact",
		slog.String("role", string(role)),
		slog.String("before", media.HumanSize(info.Size())))
	return outputPath, nil
}
