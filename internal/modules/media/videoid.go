package media

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sosodev/duration"
)

var bareVideoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID returns the YouTube video ID in identifier, which may be a
// watch, short, embed or youtu.be URL or a bare ID
func ExtractVideoID(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if bareVideoID.MatchString(identifier) {
		return identifier, nil
	}

	u, err := url.Parse(identifier)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("not a YouTube URL: %q", identifier)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "shorts" || parts[0] == "embed" || parts[0] == "live") {
			id = parts[1]
		}
	}

	if !bareVideoID.MatchString(id) {
		return "", fmt.Errorf("no video id in %q", identifier)
	}
	return id, nil
}

// ParseISODuration converts an ISO-8601 duration such as "PT1H2M3S" or
// "P1W" to seconds. Negative durations are rejected.
func ParseISODuration(s string) (float64, error) {
	if s == "" || s == "P" || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", s)
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("negative ISO-8601 duration: %q", s)
	}
	return d.ToTimeDuration().Seconds(), nil
}
