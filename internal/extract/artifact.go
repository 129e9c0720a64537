package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions of bookkeeping files yt-dlp may leave next to the media.
var sidecarExtensions = []string{".part", ".ytdl"}

// SelectArtifact picks the deliverable file from a workspace: the largest
// regular file, skipping extractor sidecars. Extraction can write several
// files (separate streams before merge, metadata); size is a reliable
// discriminator for the merged media. An empty workspace yields
// ErrNoArtifact.
func SelectArtifact(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read workspace: %w", err)
	}

	var (
		best     string
		bestSize int64 = -1
	)
	for _, entry := range entries {
		if entry.IsDir() || isSidecar(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", ErrNoArtifact
	}
	return best, nil
}

func isSidecar(name string) bool {
	for _, ext := range sidecarExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
