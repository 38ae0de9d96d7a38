package dto

import "digivera_backend/internal/models"

type AlertListResponse struct {
	Alerts      []models.Alert `json:"alerts"`
	TotalAlerts int            `json:"totalAlerts"`
	UnreadCount int64          `json:"unreadCount"`
}
