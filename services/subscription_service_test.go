// services/subscription_service_test.go
package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/kdjabeo/sikafund_backend/models"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2025, 6, 15, 17, 42, 13, 500, time.UTC)
	got := StartOfDay(in)
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)
	night := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC)

	if !SameDay(morning, night) {
		t.Error("same calendar day not recognized")
	}
	if SameDay(night, nextDay) {
		t.Error("different days reported as same")
	}
}

func TestAccrualCompletes(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	past := today.AddDate(0, 0, -1)
	future := today.AddDate(0, 0, 30)

	tests := []struct {
		name         string
		daysElapsed  int
		durationDays int
		earned       int64
		total        int64
		endDate      *time.Time
		want         bool
	}{
		{"mid subscription", 10, 30, 3000, 9000, &future, false},
		{"duration served", 30, 30, 9000, 9000, &future, true},
		{"revenue cap hit early", 15, 30, 9000, 9000, &future, true},
		{"end date passed", 10, 30, 3000, 9000, &past, true},
		{"end date today", 10, 30, 3000, 9000, &today, true},
		{"no end date", 10, 30, 3000, 9000, nil, false},
	}
	for _, tt := range tests {
		got := AccrualCompletes(tt.daysElapsed, tt.durationDays, tt.earned, tt.total, tt.endDate, today)
		if got != tt.want {
			t.Errorf("%s: AccrualCompletes = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Reactivating a stopped subscription unsets endDate, and a Mongo $gte
// never matches a missing field. The accrual filter must carry a
// separate arm for open-ended subscriptions or they silently stop
// paying out.
func TestDueSubscriptionFilterMatchesOpenEnded(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	filter := dueSubscriptionFilter(today)

	if filter["status"] != models.SubscriptionActive {
		t.Errorf("status = %v, want %q", filter["status"], models.SubscriptionActive)
	}
	due, ok := filter["nextPayoutDate"].(bson.M)
	if !ok || !due["$lte"].(time.Time).Equal(today) {
		t.Errorf("nextPayoutDate arm = %v, want $lte %v", filter["nextPayoutDate"], today)
	}

	arms, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("$or arm missing from filter: %v", filter)
	}
	var bounded, openEnded bool
	for _, arm := range arms {
		cond, isNested := arm["endDate"].(bson.M)
		switch {
		case isNested && cond["$gte"].(time.Time).Equal(today):
			bounded = true
		case arm["endDate"] == nil:
			openEnded = true
		}
	}
	if !bounded {
		t.Error("filter drops subscriptions with a future end date")
	}
	if !openEnded {
		t.Error("filter drops subscriptions without an end date")
	}
}

// A 30-day plan paying 300/day against a 9000 cap finishes exactly on
// day 30 with no overpayment possible.
func TestAccrualScheduleConverges(t *testing.T) {
	const (
		daily    = int64(300)
		duration = 30
		cap      = int64(9000)
	)
	earned := int64(0)
	days := 0
	for !AccrualCompletes(days, duration, earned, cap, nil, time.Time{}) {
		earned += daily
		days++
		if days > duration {
			t.Fatal("accrual ran past the duration")
		}
	}
	if earned != cap {
		t.Errorf("earned = %d, want %d", earned, cap)
	}
	if days != duration {
		t.Errorf("days = %d, want %d", days, duration)
	}
}
