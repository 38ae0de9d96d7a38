package models

type AlertType string

const (
	AlertTypeExposure AlertType = "exposure"
	AlertTypeMention  AlertType = "mention"
)

type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

type Alert struct {
	BaseModel
	UserID   string        `gorm:"not null;index" json:"userId"`
	Type     AlertType     `gorm:"type:varchar(20);not null" json:"type"`
	Severity AlertSeverity `gorm:"type:varchar(10);not null" json:"severity"`
	Message  string        `gorm:"not null" json:"message"`

	// IsRead is the only mutable field, settable once by the user.
	IsRead bool `gorm:"default:false" json:"isRead"`
}
