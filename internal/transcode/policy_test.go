package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptmcplay/ptbot/internal/media"
)

type stubTranscoder struct {
	calls int
	fail  bool
	// bytes written to the output on success
	outputSize int
}

func (s *stubTranscoder) Transcode(_ context.Context, inputPath, outputPath string, _ media.Role) error {
	s.calls++
	if s.fail {
		return errors.New("encoder exploded")
	}
	return os.WriteFile(outputPath, make([]byte, s.outputSize), 0o644)
}

func writeArtifact(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc.mp4")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func TestApplyUnderThreshold(t *testing.T) {
	t.Parallel()

	stub := &stubTranscoder{}
	policy := NewPolicy(1000, 500, stub, nil)
	input := writeArtifact(t, 1000)

	got, err := policy.Apply(context.Background(), media.RoleVideo, input)
	require.NoError(t, err)
	assert.Equal(t, input, got)
	assert.Zero(t, stub.calls, "no transcode at or under the threshold")
}

func TestApplyOverThreshold(t *testing.T) {
	t.Parallel()

	stub := &stubTranscoder{outputSize: 100}
	policy := NewPolicy(1000, 500, stub, nil)
	input := writeArtifact(t, 2000)

	got, err := policy.Apply(context.Background(), media.RoleVideo, input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "transcoded.mp4"), got)
	assert.Equal(t, 1, stub.calls)
}

func TestApplyAudioThreshold(t *testing.T) {
	t.Parallel()

	stub := &stubTranscoder{outputSize: 100}
	policy := NewPolicy(1000, 500, stub, nil)
	input := writeArtifact(t, 700)

	// 700 bytes is under the video ceiling but over the audio one.
	got, err := policy.Apply(context.Background(), media.RoleAudio, input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "transcoded.mp3"), got)
}

func TestApplyFailureDegradesToOriginal(t *testing.T) {
	t.Parallel()

	stub := &stubTranscoder{fail: true}
	policy := NewPolicy(1000, 500, stub, nil)
	input := writeArtifact(t, 2000)
	before, err := os.ReadFile(input)
	require.NoError(t, err)

	got, err := policy.Apply(context.Background(), media.RoleVideo, input)
	require.NoError(t, err, "transcode failure is not a pipeline error")
	assert.Equal(t, input, got)

	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, before, after, "original bytes untouched")
}

func TestApplySingleEvaluation(t *testing.T) {
	t.Parallel()

	// Transcode output still over the threshold is delivered as is.
	stub := &stubTranscoder{outputSize: 5000}
	policy := NewPolicy(1000, 500, stub, nil)
	input := writeArtifact(t, 2000)

	got, err := policy.Apply(context.Background(), media.RoleVideo, input)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls, "exactly one attempt")

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), policy.Threshold(media.RoleVideo))
}

func TestApplyMissingInput(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(1000, 500, &stubTranscoder{}, nil)
	_, err := policy.Apply(context.Background(), media.RoleVideo, filepath.Join(t.TempDir(), "gone.mp4"))
	assert.Error(t, err)
}

func TestFFmpegArgs(t *testing.T) {
	t.Parallel()

	video := Args("in.mp4", "out.mp4", media.RoleVideo)
	assert.Contains(t, video, "libx264")
	assert.Contains(t, video, "aac")
	assert.NotContains(t, video, "-vn")

	audio := Args("in.webm", "out.mp3", media.RoleAudio)
	assert.Contains(t, audio, "-vn")
	assert.NotContains(t, audio, "libx264")
}
