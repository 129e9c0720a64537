// Package transcode re-encodes oversized artifacts down toward the delivery
// ceiling and decides when that is worth attempting.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ptmcplay/ptbot/internal/media"
)

// Transcoder re-encodes inputPath into outputPath for the given role. On
// failure the input file is left untouched and no partial output remains.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string, role media.Role) error
}

// FFmpeg invokes the ffmpeg binary.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

// NewFFmpeg builds an FFmpeg runner for the given binary path.
func NewFFmpeg(binary string, log *slog.Logger) *FFmpeg {
	if log == nil {
		log = slog.Default()
	}
	return &FFmpeg{
		binary: binary,
		logger: log.With(slog.String("component", "transcode")),
	}
}

// Args builds the ffmpeg argument list: constrained-bitrate H.264/AAC for
// video, audio track only at a constrained bitrate for audio.
func Args(inputPath, outputPath string, role media.Role) []string {
	if role == media.RoleAudio {
		return []string{"-y", "-i", inputPath, "-vn", "-b:a", "128k", outputPath}
	}
	return []string{
		"-y", "-i", inputPath,
		"-vcodec", "libx264", "-crf", "28",
		"-acodec", "aac", "-b:a", "128k",
		outputPath,
	}
}

// Transcode runs ffmpeg. A failed run removes whatever partial output was
// written so callers never pick it up as an artifact.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string, role media.Role) error {
	cmd := exec.CommandContext(ctx, f.binary, Args(inputPath, outputPath, role)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(outputPath)
		f.logger.Warn("ffmpeg failed",
			slog.String("input", inputPath),
			slog.String("role", string(role)),
			slog.String("stderr", tail(stderr.String())),
			slog.Any("error", err))
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// tail keeps the last few stderr lines; ffmpeg puts the reason there.
func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, "\n")
}
