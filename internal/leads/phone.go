package leads

import (
	"regexp"
	"strings"
)

// uaePhonePattern accepts a nine digit UAE subscriber number with any of
// the usual prefixes: none, trunk 0, country code 971, international
// 00971, or +971.
var uaePhonePattern = regexp.MustCompile(`^(\+971|00971|971|0)?[0-9]{9}$`)

// ValidUAEPhone reports whether raw is an accepted UAE phone number.
// Spaces, dashes and parentheses are ignored.
func ValidUAEPhone(raw string) bool {
	return uaePhonePattern.MatchString(stripPhoneSeparators(raw))
}

// NormalizePhone canonicalizes an accepted UAE phone number to
// +971XXXXXXXXX. All non-digits are stripped first, then the prefix is
// rewritten: 00971 loses the international 00, a trunk 0 becomes +971,
// a bare subscriber number gets +971 prepended.
func NormalizePhone(raw string) string {
	cleaned := digitsOnly(raw)
	switch {
	case strings.HasPrefix(cleaned, "00971"):
		return "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "971"):
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "0"):
		return "+971" + cleaned[1:]
	default:
		return "+971" + cleaned
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripPhoneSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
