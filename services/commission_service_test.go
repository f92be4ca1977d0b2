// services/commission_service_test.go
package services

import "testing"

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		purchase int64
		rate     float64
		want     int64
	}{
		{10000, 25, 2500},
		{10000, 3, 300},
		{10000, 2, 200},
		{999, 25, 250},  // 249.75 rounds up
		{999, 3, 30},    // 29.97 rounds up
		{1, 25, 0},      // 0.25 rounds down
		{100000, 2.5, 2500},
		{0, 25, 0},
	}
	for _, tt := range tests {
		got := CommissionAmount(tt.purchase, tt.rate)
		if got != tt.want {
			t.Errorf("CommissionAmount(%d, %v) = %d, want %d", tt.purchase, tt.rate, got, tt.want)
		}
	}
}

// Only the first completed purchase pays commissions; every purchase
// after it earns the referrers nothing.
func TestCommissionEligible(t *testing.T) {
	tests := []struct {
		prior int64
		want  bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{10, false},
	}
	for _, tt := range tests {
		if got := CommissionEligible(tt.prior); got != tt.want {
			t.Errorf("CommissionEligible(%d) = %v, want %v", tt.prior, got, tt.want)
		}
	}
}

func TestCommissionLevelsSumBelowPurchase(t *testing.T) {
	// Default rates: 25 + 3 + 2 = 30% of the purchase
	purchase := int64(10000)
	total := CommissionAmount(purchase, 25) +
		CommissionAmount(purchase, 3) +
		CommissionAmount(purchase, 2)
	if total != 3000 {
		t.Errorf("total commission = %d, want 3000", total)
	}
	if total >= purchase {
		t.Error("commissions must never exceed the purchase amount")
	}
}
