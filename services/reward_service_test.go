// services/reward_service_test.go
package services

import (
	"testing"
	"time"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC)
	twoDaysAgo := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)

	if got := NextStreak(nil, 0, now); got != 1 {
		t.Errorf("first ever check-in: streak = %d, want 1", got)
	}
	if got := NextStreak(&yesterday, 4, now); got != 5 {
		t.Errorf("consecutive check-in: streak = %d, want 5", got)
	}
	if got := NextStreak(&twoDaysAgo, 9, now); got != 1 {
		t.Errorf("broken streak: streak = %d, want 1", got)
	}
}

func TestNextStreakAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	lastOfJune := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)

	if got := NextStreak(&lastOfJune, 2, now); got != 3 {
		t.Errorf("month boundary: streak = %d, want 3", got)
	}
}
