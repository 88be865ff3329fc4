// Package urlutil validates URLs before they are handed to the purge client.
package urlutil

import (
	"fmt"
	neturl "net/url"
	"strings"
)

const (
	// MaxURLLength is the RFC 2616 practical limit for URL length
	MaxURLLength = 2048
)

// Validate performs HTTP/HTTPS URL validation using net/url.Parse.
// It checks that the URL is non-empty, within MaxURLLength, parseable,
// uses an http or https scheme and carries a host.
func Validate(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)

	if rawURL == "" {
		return fmt.Errorf("url cannot be empty")
	}

	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url exceeds maximum length of %d characters", MaxURLLength)
	}

	parsed, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		if parsed.Scheme == "" {
			return fmt.Errorf("url must use http:// or https://")
		}
		return fmt.Errorf("url must use http:// or https://, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("url missing host/domain")
	}

	return nil
}
