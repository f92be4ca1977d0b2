// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded for admin operations.
const (
	AuditBalanceAdjustment     = "balance_adjustment"
	AuditWithdrawalApprove     = "withdrawal_approve"
	AuditWithdrawalReject      = "withdrawal_reject"
	AuditDepositApprove        = "deposit_approve"
	AuditDepositReject         = "deposit_reject"
	AuditBankAccountVerify     = "bank_account_verify"
	AuditBankAccountReject     = "bank_account_reject"
	AuditSubscriptionStop      = "subscription_stop"
	AuditSubscriptionRestart   = "subscription_reactivate"
	AuditSettingChange         = "setting_change"
)

// AuditLog records one privileged admin action.
type AuditLog struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AdminID    primitive.ObjectID `json:"adminId" bson:"adminId"`
	Action     string             `json:"action" bson:"action"`
	TargetType string             `json:"targetType" bson:"targetType"`
	TargetID   primitive.ObjectID `json:"targetId" bson:"targetId"`
	Details    string             `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}
