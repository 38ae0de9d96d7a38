package dto

import (
	"time"

	"digivera_backend/internal/models"
)

type RunScanRequest struct {
	ScanTarget  string `json:"scanTarget" validate:"required,oneof=email name"`
	TargetValue string `json:"targetValue" validate:"required,min=1"`
}

// ScanResult is the response for a completed scan. Note is set when the
// exposure lookup failed open and the score was computed from limited data.
type ScanResult struct {
	ScanID      string          `json:"scanId"`
	ScanTarget  string          `json:"scanTarget"`
	TargetValue string          `json:"targetValue"`
	Findings    models.Findings `json:"findings"`
	RiskScore   int             `json:"riskScore"`
	Severity    string          `json:"severity"`
	Explanation string          `json:"explanation"`
	Note        string          `json:"note,omitempty"`
	ScannedAt   time.Time       `json:"scannedAt"`
}

type ScanHistoryResponse struct {
	Scans      []models.Scan `json:"scans"`
	Pagination Pagination    `json:"pagination"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	PageSize    int   `json:"pageSize"`
}
