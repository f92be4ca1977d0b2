// models/transaction_test.go
package models

import (
	"testing"
)

func TestKindDirections(t *testing.T) {
	credits := []TransactionKind{
		KindDeposit, KindCommission, KindDailyRevenue, KindBonus,
		KindCheckin, KindRefund, KindReward, KindReferralBonus,
	}
	for _, k := range credits {
		if !k.IsCredit() {
			t.Errorf("%s should be a credit", k)
		}
	}

	debits := []TransactionKind{KindWithdrawal, KindPurchase}
	for _, k := range debits {
		if k.IsCredit() {
			t.Errorf("%s should be a debit", k)
		}
	}
}

func TestIsEarning(t *testing.T) {
	earning := []TransactionKind{
		KindCommission, KindDailyRevenue, KindBonus,
		KindCheckin, KindReward, KindReferralBonus,
	}
	for _, k := range earning {
		if !k.IsEarning() {
			t.Errorf("%s should count toward earnings", k)
		}
	}

	// Deposits and refunds return the user's own money
	notEarning := []TransactionKind{KindDeposit, KindRefund, KindWithdrawal, KindPurchase}
	for _, k := range notEarning {
		if k.IsEarning() {
			t.Errorf("%s should not count toward earnings", k)
		}
	}
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		kind   TransactionKind
		amount int64
		want   int64
	}{
		{KindDeposit, 5000, 5000},
		{KindCommission, 2500, 2500},
		{KindWithdrawal, 3000, -3000},
		{KindPurchase, 10000, -10000},
	}
	for _, tt := range tests {
		got, err := tt.kind.SignedDelta(tt.amount)
		if err != nil {
			t.Fatalf("SignedDelta(%s, %d) failed: %v", tt.kind, tt.amount, err)
		}
		if got != tt.want {
			t.Errorf("SignedDelta(%s, %d) = %d, want %d", tt.kind, tt.amount, got, tt.want)
		}
	}
}

func TestSignedDeltaRejectsBadInput(t *testing.T) {
	if _, err := KindDeposit.SignedDelta(0); err == nil {
		t.Error("zero amount should be rejected")
	}
	if _, err := KindDeposit.SignedDelta(-100); err == nil {
		t.Error("negative amount should be rejected")
	}
	if _, err := TransactionKind("gift_card").SignedDelta(100); err == nil {
		t.Error("unknown kind should be rejected")
	}
}

// Replaying a sequence of entries against a starting balance must land
// on the final BalanceAfter, and each entry's snapshots must chain.
func TestLedgerEntryChain(t *testing.T) {
	type step struct {
		kind   TransactionKind
		amount int64
	}
	steps := []step{
		{KindDeposit, 10000},
		{KindPurchase, 6000},
		{KindDailyRevenue, 300},
		{KindCheckin, 100},
		{KindWithdrawal, 2000},
		{KindRefund, 500},
	}

	balance := int64(0)
	for i, s := range steps {
		delta, err := s.kind.SignedDelta(s.amount)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		entry := Transaction{
			Kind:          s.kind,
			Amount:        delta,
			BalanceBefore: balance,
			BalanceAfter:  balance + delta,
		}
		if entry.BalanceAfter != entry.BalanceBefore+entry.Amount {
			t.Errorf("step %d: snapshots do not chain", i)
		}
		if entry.BalanceAfter < 0 {
			t.Errorf("step %d: balance went negative: %d", i, entry.BalanceAfter)
		}
		balance = entry.BalanceAfter
	}

	if balance != 2900 {
		t.Errorf("final balance = %d, want 2900", balance)
	}
}
