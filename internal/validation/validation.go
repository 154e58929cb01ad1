package validation

import (
	"net/url"
	"regexp"
	"strings"
)

// PhonePattern accepts Moroccan numbers in local (0XXXXXXXXX) or
// international (+212XXXXXXXXX) form, with optional spaces, dots or
// hyphens between digit groups.
var PhonePattern = regexp.MustCompile(`^(?:\+212|0)[\s.-]?[5-8](?:[\s.-]?\d){8}$`)

// EmailPattern is a pragmatic check, not a full RFC 5322 parser.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateName checks a practice or person name for presence and length.
func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= 200
}

// ValidatePhone checks if a phone number looks like a Moroccan number.
func ValidatePhone(phone string) bool {
	return PhonePattern.MatchString(strings.TrimSpace(phone))
}

// ValidateEmail checks an email address for plausible shape.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return false
	}
	return EmailPattern.MatchString(email)
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ParseSpecialties splits a comma-separated specialties string into a
// trimmed, deduplicated list. Order of first appearance is preserved.
func ParseSpecialties(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// NormalizeWhatsApp strips everything but digits so the number can be
// used in a wa.me link.
func NormalizeWhatsApp(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
