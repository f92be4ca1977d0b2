// models/setting.go
package models

import (
	"time"
)

// Setting keys read by the engines. Settings are looked up per
// operation so admin changes take effect on the next one.
const (
	SettingSignupBonusAmount    = "signup_bonus_amount"
	SettingDailyCheckinBonus    = "daily_checkin_bonus"
	SettingMinDepositAmount     = "min_deposit_amount"
	SettingMinWithdrawalAmount  = "min_withdrawal_amount"
	SettingWithdrawalFeeRate    = "withdrawal_fee_rate"
	SettingWithdrawalDailyLimit = "withdrawal_daily_limit"
	SettingReferralLevel1Rate   = "referral_level1_rate"
	SettingReferralLevel2Rate   = "referral_level2_rate"
	SettingReferralLevel3Rate   = "referral_level3_rate"
)

// Setting is one key/value configuration entry.
type Setting struct {
	Key       string    `json:"key" bson:"key"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type SettingRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}
