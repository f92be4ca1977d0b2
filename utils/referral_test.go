// utils/referral_test.go
package utils

import "testing"

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode()
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if len(code) != ReferralCodeLength {
		t.Errorf("code %q has length %d, want %d", code, len(code), ReferralCodeLength)
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			t.Errorf("code %q contains invalid character %q", code, r)
		}
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateReferralCode()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		seen[code] = true
	}
	// 50 draws from a 32^6 space colliding down to a handful would
	// mean a broken random source
	if len(seen) < 45 {
		t.Errorf("only %d distinct codes in 50 draws", len(seen))
	}
}
