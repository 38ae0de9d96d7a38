package models

import (
	"gorm.io/datatypes"
)

type ScanTarget string

const (
	ScanTargetEmail ScanTarget = "email"
	ScanTargetName  ScanTarget = "name"
)

func (t ScanTarget) Valid() bool {
	return t == ScanTargetEmail || t == ScanTargetName
}

// Findings holds the integer counters a scan produced. The counters follow
// the public-exposure schema: occurrences of the identifier in public code
// plus public mentions from other sources.
type Findings struct {
	PublicExposure int `json:"publicExposure"`
	PublicMentions int `json:"publicMentions"`
}

// Scan is immutable once created. RiskScore is computed exactly once at
// creation time and never recomputed.
type Scan struct {
	BaseModel
	UserID      string                          `gorm:"not null;index" json:"userId"`
	ScanTarget  ScanTarget                      `gorm:"type:varchar(10);not null" json:"scanTarget"`
	TargetValue string                          `gorm:"not null" json:"targetValue"`
	Findings    datatypes.JSONType[Findings]    `json:"findings"`
	RiskScore   int                             `gorm:"not null" json:"riskScore"`
}
