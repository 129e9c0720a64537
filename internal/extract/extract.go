// Package extract drives yt-dlp to populate a workspace and selects the
// deliverable artifact from whatever the extractor wrote there.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ptmcplay/ptbot/internal/media"
)

var (
	// ErrExtractionFailed covers every extraction-layer failure: network,
	// unsupported URL, geo-block, private content. Callers get no cause
	// discrimination; the underlying error is kept for logs via wrapping.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrNoArtifact means the extractor reported success but left nothing
	// usable in the workspace. Callers treat it like an extraction failure.
	ErrNoArtifact = errors.New("no artifact in workspace")
)

// Extractor populates dir with media for url and returns its title.
type Extractor interface {
	Extract(ctx context.Context, url string, role media.Role, dir string) (title string, err error)
}

const fallbackTitle = "NoTitle"

// Runner invokes the yt-dlp binary.
type Runner struct {
	binary string
	logger *slog.Logger
}

// NewRunner builds a Runner for the given yt-dlp binary path.
func NewRunner(binary string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		binary: binary,
		logger: log.With(slog.String("component", "extract")),
	}
}

// FormatSpec returns the yt-dlp format selector for a role: best merged
// video+audio for video, best audio-only stream for audio.
func FormatSpec(role media.Role) string {
	if role == media.RoleAudio {
		return "bestaudio/best"
	}
	return "bestvideo+bestaudio/best"
}

// Args builds the yt-dlp argument list for one extraction. Exposed for
// tests; Extract is a thin exec wrapper around it.
func Args(url string, role media.Role, dir string) []string {
	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-f", FormatSpec(role),
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--no-simulate",
		"--print", "title",
	}
	if role == media.RoleVideo {
		args = append(args, "--merge-output-format", "mp4")
	}
	return append(args, url)
}

// Extract runs yt-dlp and returns the media title printed on stdout.
func (r *Runner) Extract(ctx context.Context, url string, role media.Role, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, Args(url, role, dir)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Warn("yt-dlp failed",
			slog.String("url", url),
			slog.String("role", string(role)),
			slog.String("stderr", strings.TrimSpace(stderr.String())),
			slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	title := strings.TrimSpace(stdout.String())
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	if title == "" {
		title = fallbackTitle
	}
	return title, nil
}
