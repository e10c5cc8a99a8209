package models

import "time"

type EscrowAction string

type RecordStatus string

type NotificationType string

const (
	EscrowActionFund   EscrowAction = "fund"
	EscrowActionClaim  EscrowAction = "claim"
	EscrowActionRefund EscrowAction = "refund"
	EscrowActionUpdate EscrowAction = "update"
)

const (
	RecordStatusSuccess RecordStatus = "success"
	RecordStatusFailed  RecordStatus = "failed"
)

const (
	NotificationMilestoneFunded    NotificationType = "milestone_funded"
	NotificationMilestoneCompleted NotificationType = "milestone_completed"
	NotificationPaymentClaimed     NotificationType = "payment_claimed"
	NotificationMilestoneRefunded  NotificationType = "milestone_refunded"
	NotificationProjectCreated     NotificationType = "project_created"
)

// TransactionRecord is the audit trail of every escrow action attempted
// through the dashboard, successful or not.
type TransactionRecord struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Signature     string       `gorm:"index" json:"signature"`
	Action        EscrowAction `gorm:"not null" json:"action"`
	Amount        float64      `json:"amount"`
	ProjectID     string       `gorm:"index;not null" json:"project_id"`
	MilestoneID   string       `gorm:"index;not null" json:"milestone_id"`
	WalletAddress string       `gorm:"index;not null" json:"wallet_address"`
	Status        RecordStatus `gorm:"not null" json:"status"`
	ErrorCode     string       `json:"error_code,omitempty"`
	Detail        string       `json:"detail,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Notification is delivered to the counterparty of an escrow action.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Type          NotificationType `gorm:"not null" json:"type"`
	Title         string           `gorm:"not null" json:"title"`
	Message       string           `gorm:"not null" json:"message"`
	Read          bool             `gorm:"default:false" json:"read"`
	WalletAddress string           `gorm:"index;not null" json:"wallet_address"`
	ProjectID     string           `gorm:"index" json:"project_id,omitempty"`
	MilestoneID   string           `json:"milestone_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
