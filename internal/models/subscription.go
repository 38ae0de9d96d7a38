package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription records a payment-provider transaction and its validity window
type Subscription struct {
	BaseModel
	UserID     string             `gorm:"not null;index" json:"userId"`
	Provider   string             `gorm:"type:varchar(20);not null" json:"provider"`
	ProviderID string             `gorm:"not null" json:"providerId"`
	Status     SubscriptionStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	Amount     int64              `gorm:"not null" json:"amount"`
	Currency   string             `gorm:"type:varchar(10);not null" json:"currency"`
	StartedAt  time.Time          `json:"startedAt"`
	EndsAt     time.Time          `json:"endsAt"`
}
