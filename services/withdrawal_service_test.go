// services/withdrawal_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/kdjabeo/sikafund_backend/models"
)

func TestWithdrawalFee(t *testing.T) {
	tests := []struct {
		amount int64
		rate   float64
		want   int64
	}{
		{10000, 5, 500},
		{1000, 5, 50},
		{1001, 5, 50},  // 50.05 rounds down
		{1010, 5, 51},  // 50.5 rounds up
		{10000, 0, 0},
		{10000, 2.5, 250},
	}
	for _, tt := range tests {
		got := WithdrawalFee(tt.amount, tt.rate)
		if got != tt.want {
			t.Errorf("WithdrawalFee(%d, %v) = %d, want %d", tt.amount, tt.rate, got, tt.want)
		}
	}
}

// Approve and reject share this guard; once a request leaves pending,
// no further decision may touch it (approving a rejected request must
// fail, not debit).
func TestEnsurePendingWithdrawal(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{models.WithdrawalPending, false},
		{models.WithdrawalCompleted, true},
		{models.WithdrawalRejected, true},
		{models.WithdrawalCancelled, true},
		{"garbage", true},
	}
	for _, tt := range tests {
		err := EnsurePendingWithdrawal(tt.status)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("EnsurePendingWithdrawal(%q) = %v, want ErrInvalidState", tt.status, err)
			}
		} else if err != nil {
			t.Errorf("EnsurePendingWithdrawal(%q) = %v, want nil", tt.status, err)
		}
	}
}

func TestWithdrawalNetAmount(t *testing.T) {
	amount := int64(20000)
	fee := WithdrawalFee(amount, 5)
	net := amount - fee
	if fee != 1000 {
		t.Errorf("fee = %d, want 1000", fee)
	}
	if net != 19000 {
		t.Errorf("net = %d, want 19000", net)
	}
	if fee+net != amount {
		t.Error("fee and net must sum to the gross amount")
	}
}
