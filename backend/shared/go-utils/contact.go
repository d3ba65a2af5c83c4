package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`) // ITU-T E.164

var phoneNoise = regexp.MustCompile(`[\s().\-]`)

// IsE164 reports basic E.164 compliance.
func IsE164(number string) bool { return e164Regex.MatchString(number) }

// NormalizePhone strips formatting and assumes +1 for bare ten-digit
// numbers. It returns false when the result is not E.164.
func NormalizePhone(raw string) (string, bool) {
	n := phoneNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(n) == 10 && !strings.HasPrefix(n, "+") {
		n = "+1" + n
	}
	if len(n) == 11 && strings.HasPrefix(n, "1") {
		n = "+" + n
	}
	return n, IsE164(n)
}

// NormalizeEmail lower-cases and trims an address so it can be used as a
// uniqueness key.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// IsValidEmailSyntax does RFC-5322-ish syntax only (no DNS).
func IsValidEmailSyntax(e string) bool {
	addr, err := mail.ParseAddress(e)
	return err == nil && addr.Address == strings.TrimSpace(e)
}
