package resolve

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the canonical 11-character video id out of the
// supported YouTube URL forms (watch?v=, youtu.be/, shorts/, embed/) or a
// bare id.
func ExtractVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("unparseable URL %q: %w", raw, err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	var candidate string
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			candidate = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			candidate = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			candidate = strings.TrimPrefix(u.Path, "/embed/")
		}
	case "youtu.be":
		candidate = strings.TrimPrefix(u.Path, "/")
	}

	candidate = strings.TrimSuffix(candidate, "/")
	if !videoIDPattern.MatchString(candidate) {
		return "", fmt.Errorf("no video id in %q", raw)
	}
	return candidate, nil
}

// WatchURL builds the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}
