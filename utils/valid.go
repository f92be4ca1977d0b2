// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

// allowedPhonePrefixes lists the country codes accounts may register
// with (CFA franc zone, West Africa).
var allowedPhonePrefixes = []string{
	"+221", // Senegal
	"+223", // Mali
	"+225", // Cote d'Ivoire
	"+226", // Burkina Faso
	"+227", // Niger
	"+228", // Togo
	"+229", // Benin
	"+245", // Guinea-Bissau
}

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// SanitizePhone normalizes a phone number and enforces the
// country-prefix allow-list.
func SanitizePhone(phone string) (string, error) {
	phone = regexp.MustCompile(`[^\d+]`).ReplaceAllString(strings.TrimSpace(phone), "")
	if phone == "" {
		return "", errors.New("phone number is required")
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if len(phone) < 8 || len(phone) > 15 {
		return "", errors.New("invalid phone number length")
	}

	for _, prefix := range allowedPhonePrefixes {
		if strings.HasPrefix(phone, prefix) {
			return phone, nil
		}
	}
	return "", errors.New("phone number country is not supported")
}
