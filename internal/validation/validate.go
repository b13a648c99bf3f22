package validation

import (
	"net/netip"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/input-output-hk/catalyst-forge-libs/s3report/errors"
)

// ValidateBucketHost validates that a parsed location host is a plain
// domain-style name usable as a bucket. IP literals are rejected.
// Returns ErrInvalidBucketName if the host is invalid.
func ValidateBucketHost(host string) error {
	if host == "" {
		return errors.ErrInvalidBucketName
	}

	if isIPAddress(host) {
		return errors.ErrInvalidBucketName
	}

	if err := validateHostStructure(host); err != nil {
		return err
	}

	for _, char := range host {
		if !isValidHostChar(char) {
			return errors.ErrInvalidBucketName
		}
	}

	return nil
}

// ValidatePath validates the caller-supplied object path. The path is used
// verbatim as the key suffix, so it must be non-empty, valid UTF-8 text, and
// free of control characters.
func ValidatePath(path string) error {
	if path == "" {
		return errors.ErrInvalidPath
	}

	if !utf8.ValidString(path) {
		return errors.ErrInvalidPath
	}

	if hasControlCharacters(path) {
		return errors.ErrInvalidPath
	}

	return nil
}

// validateHostStructure rejects empty labels and leading or trailing separators
func validateHostStructure(host string) error {
	if host[0] == '.' || host[0] == '-' || host[len(host)-1] == '.' || host[len(host)-1] == '-' {
		return errors.ErrInvalidBucketName
	}

	if strings.Contains(host, "..") {
		return errors.ErrInvalidBucketName
	}

	return nil
}

// isValidHostChar checks if a character is valid in a domain-style host
func isValidHostChar(char rune) bool {
	return (char >= '0' && char <= '9') ||
		(char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		char == '.' || char == '-' || char == '_'
}

// isIPAddress checks if a host is an IPv4 or IPv6 literal, with or without brackets
func isIPAddress(host string) bool {
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if _, err := netip.ParseAddr(host); err == nil {
		return true
	}
	return isDottedQuad(host)
}

// isDottedQuad catches IPv4-like hosts netip refuses, such as "010.0.0.1"
func isDottedQuad(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return false
		}
		for _, char := range part {
			if char < '0' || char > '9' {
				return false
			}
		}
	}

	return true
}

// hasControlCharacters checks for control characters in the path
func hasControlCharacters(path string) bool {
	for _, char := range path {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
