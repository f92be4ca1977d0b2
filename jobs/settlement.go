// jobs/settlement.go
package jobs

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kdjabeo/sikafund_backend/services"
)

// Settlement runs the recurring money jobs: daily revenue accrual,
// reward expiry and check-in streak resets. Each run is idempotent
// within a calendar day, so overlapping triggers are safe.
type Settlement struct {
	subscriptions *services.SubscriptionService
	rewards       *services.RewardService
}

func NewSettlement(db *mongo.Client) *Settlement {
	settings := services.NewSettingsService(db)
	ledger := services.NewLedgerService(db)
	referrals := services.NewReferralService(db, settings)
	commissions := services.NewCommissionService(db, ledger, referrals)
	return &Settlement{
		subscriptions: services.NewSubscriptionService(db, ledger, commissions),
		rewards:       services.NewRewardService(db, ledger, settings),
	}
}

// RunOnce executes one settlement pass. Per-item failures are counted
// and logged but never stop the pass.
func (s *Settlement) RunOnce(ctx context.Context) {
	now := time.Now()

	summary, err := s.subscriptions.RunDailyAccrual(ctx, now)
	if err != nil {
		log.Printf("settlement: daily accrual failed: %v", err)
	} else if summary.Processed > 0 || summary.Failed > 0 {
		log.Printf("settlement: accrual processed=%d completed=%d failed=%d",
			summary.Processed, summary.Completed, summary.Failed)
	}

	expired, err := s.rewards.ExpireRewards(ctx, now)
	if err != nil {
		log.Printf("settlement: reward expiry failed: %v", err)
	} else if expired > 0 {
		log.Printf("settlement: expired %d rewards", expired)
	}

	resets, err := s.rewards.ResetBrokenStreaks(ctx, now)
	if err != nil {
		log.Printf("settlement: streak reset failed: %v", err)
	} else if resets > 0 {
		log.Printf("settlement: reset %d broken streaks", resets)
	}
}

// Start loops RunOnce on the given interval until the context is
// cancelled. Accrual advances nextPayoutDate per subscription, so an
// hourly interval pays each subscription once per day.
func (s *Settlement) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
