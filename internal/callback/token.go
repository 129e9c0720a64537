// Package callback encodes a pending format choice as a self-describing
// token carried in an inline keyboard button. The token alone reconstructs
// the request: no server-side session exists between showing the menu and
// the user pressing a button.
package callback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ptmcplay/ptbot/internal/media"
)

const (
	// Version tags the encoding so a future layout change can coexist with
	// buttons still pending from an older process.
	Version = "v1"

	// PlatformYouTube is the only platform tag currently issued; short-form
	// links download without a menu.
	PlatformYouTube = "yt"

	separator = "|"
	fields    = 4
)

// ErrMalformedToken marks callback payloads that could not be decoded. It is
// distinct from extraction failures so the user sees a different message.
var ErrMalformedToken = errors.New("malformed callback token")

// Action is one pending user choice: which platform, which role, which URL.
type Action struct {
	Platform string
	Role     media.Role
	URL      string
}

// Encode serializes the action. The URL is the last field and may itself
// contain the separator; Decode splits accordingly.
func (a Action) Encode() string {
	return strings.Join([]string{Version, a.Platform, string(a.Role), a.URL}, separator)
}

// Decode parses an encoded action, validating every field. Any deviation
// returns an error wrapping ErrMalformedToken.
func Decode(data string) (Action, error) {
	parts := strings.SplitN(data, separator, fields)
	if len(parts) != fields {
		return Action{}, fmt.Errorf("%w: expected %d fields", ErrMalformedToken, fields)
	}
	if parts[0] != Version {
		return Action{}, fmt.Errorf("%w: unknown version %q", ErrMalformedToken, parts[0])
	}
	if parts[1] != PlatformYouTube {
		return Action{}, fmt.Errorf("%w: unknown platform %q", ErrMalformedToken, parts[1])
	}
	role := media.Role(parts[2])
	if !role.Valid() {
		return Action{}, fmt.Errorf("%w: unknown role %q", ErrMalformedToken, parts[2])
	}
	if parts[3] == "" {
		return Action{}, fmt.Errorf("%w: empty url", ErrMalformedToken)
	}
	return Action{Platform: parts[1], Role: role, URL: parts[3]}, nil
}
