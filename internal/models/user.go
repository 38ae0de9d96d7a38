package models

import "time"

type UserPlan string

const (
	PlanFree UserPlan = "free"
	PlanPro  UserPlan = "pro"
)

// DefaultReputationScore is the score assigned before any scan has run
const DefaultReputationScore = 100

type User struct {
	BaseModel
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber  *string `gorm:"uniqueIndex" json:"phoneNumber,omitempty"`
	GoogleID     *string `gorm:"index" json:"-"`
	PasswordHash string  `gorm:"not null" json:"-"`

	// Plan transitions to pro only through a verified payment webhook and
	// reverts to free on cancellation or expiry.
	Plan UserPlan `gorm:"type:varchar(10);default:'free'" json:"plan"`

	// ReputationScore is mutated only by the scan pipeline, never directly.
	ReputationScore int `gorm:"default:100" json:"reputationScore"`

	// LastManualScanAt drives the free-plan monthly quota. Automatic weekly
	// scans never touch it.
	LastManualScanAt *time.Time `json:"lastManualScanAt,omitempty"`

	ResetToken    string     `json:"-"`
	ResetTokenExp *time.Time `json:"-"`

	// Relations
	Scans         []Scan         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Alerts        []Alert        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
