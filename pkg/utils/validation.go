package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateURL trims and validates an http(s) base URL, returning a normalized
// value without a trailing slash or an error if the URL is empty or invalid.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid URL: expected http(s)://host, got %q", s)
	}
	return strings.TrimSuffix(s, "/"), nil
}

// ValidateEmail trims an address and checks it looks like name@host.tld
func ValidateEmail(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(s) {
		return "", fmt.Errorf("invalid email: %q", s)
	}
	return s, nil
}
