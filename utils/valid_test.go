// utils/valid_test.go
package utils

import "testing"

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+221771234567", "+221771234567", false},
		{"221771234567", "+221771234567", false},
		{"+225 07 123 456", "+22507123456", false},
		{" +229-90-12-34-56 ", "+22990123456", false},
		{"+245955123456", "+245955123456", false}, // Guinea-Bissau
		{"+33612345678", "", true},  // France not in the allow-list
		{"+1234", "", true},         // too short
		{"", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := SanitizePhone(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SanitizePhone(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizePhone(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello  "); got != "hello" {
		t.Errorf("whitespace not trimmed: %q", got)
	}
	if got := SanitizeInput("<script>x</script>"); got == "<script>x</script>" {
		t.Error("HTML not escaped")
	}
	if got := SanitizeInput("a\x00b\x1fc"); got != "abc" {
		t.Errorf("control characters not stripped: %q", got)
	}
}
