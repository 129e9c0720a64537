package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptmcplay/ptbot/internal/media"
)

func TestFormatSpec(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bestvideo+bestaudio/best", FormatSpec(media.RoleVideo))
	assert.Equal(t, "bestaudio/best", FormatSpec(media.RoleAudio))
}

func TestArgs(t *testing.T) {
	t.Parallel()

	videoArgs := strings.Join(Args("https://youtu.be/a", media.RoleVideo, "/tmp/ws"), " ")
	assert.Contains(t, videoArgs, "--no-playlist")
	assert.Contains(t, videoArgs, "-f bestvideo+bestaudio/best")
	assert.Contains(t, videoArgs, "--merge-output-format mp4")
	assert.Contains(t, videoArgs, filepath.Join("/tmp/ws", "%(id)s.%(ext)s"))
	assert.True(t, strings.HasSuffix(videoArgs, "https://youtu.be/a"))

	audioArgs := strings.Join(Args("https://youtu.be/a", media.RoleAudio, "/tmp/ws"), " ")
	assert.Contains(t, audioArgs, "-f bestaudio/best")
	assert.NotContains(t, audioArgs, "--merge-output-format")
}

func writeFile(t *testing.T, dir, name string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644))
}

func TestSelectArtifact(t *testing.T) {
	t.Parallel()

	t.Run("largest wins", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "abc.mp4", 5000)
		writeFile(t, dir, "abc.info.json", 200)
		writeFile(t, dir, "thumb.webp", 900)

		got, err := SelectArtifact(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "abc.mp4"), got)
	})

	t.Run("sidecars skipped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "abc.mp4.part", 9000)
		writeFile(t, dir, "abc.ytdl", 8000)
		writeFile(t, dir, "abc.mp4", 100)

		got, err := SelectArtifact(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "abc.mp4"), got)
	})

	t.Run("subdirectories ignored", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
		writeFile(t, dir, "a.mp3", 10)

		got, err := SelectArtifact(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "a.mp3"), got)
	})

	t.Run("empty workspace", func(t *testing.T) {
		t.Parallel()
		_, err := SelectArtifact(t.TempDir())
		assert.True(t, errors.Is(err, ErrNoArtifact))
	})

	t.Run("only sidecars", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, dir, "abc.mp4.part", 9000)

		_, err := SelectArtifact(dir)
		assert.True(t, errors.Is(err, ErrNoArtifact))
	})
}
