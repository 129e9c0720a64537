// Package media holds the shared vocabulary of the download pipeline:
// delivery roles and size formatting.
package media

// Role selects what the user gets back: a video file or an audio-only file.
type Role string

const (
	RoleVideo Role = "video"
	RoleAudio Role = "audio"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleVideo || r == RoleAudio
}

// Ext returns the delivery filename extension for the role.
func (r Role) Ext() string {
	if r == RoleAudio {
		return ".mp3"
	}
	return ".mp4"
}
