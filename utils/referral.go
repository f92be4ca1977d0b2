// utils/referral.go
package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// ReferralCodeLength is the fixed length of user referral codes.
const ReferralCodeLength = 6

// GenerateReferralCode generates a random referral code of 6 uppercase
// alphanumeric characters. Uniqueness is enforced by the database index;
// callers retry on duplicate-key errors.
func GenerateReferralCode() (string, error) {
	// 4 random bytes give 6+ characters in base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	code = strings.ToUpper(code)
	code = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, code)

	if len(code) < ReferralCodeLength {
		code = code + strings.Repeat("0", ReferralCodeLength-len(code))
	}
	return code[:ReferralCodeLength], nil
}
