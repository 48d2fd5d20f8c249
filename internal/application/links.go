package application

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var instagramPrefixes = []string{"https://www.instagram.com", "https://instagram.com"}

// IsInstagramURL accepts absolute https links on instagram.com or www.instagram.com.
func IsInstagramURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	matched := false
	for _, p := range instagramPrefixes {
		if strings.HasPrefix(raw, p) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}
	switch u.Hostname() {
	case "www.instagram.com", "instagram.com":
		return true
	}
	return false
}

// mediaFileName builds names like video_20240501_101500_4821.mp4.
func mediaFileName(prefix, ext string, now time.Time, randIntn func(int) int) string {
	return fmt.Sprintf("%s_%s_%d.%s", prefix, now.Format("20060102_150405"), 1000+randIntn(9000), ext)
}
