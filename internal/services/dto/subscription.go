package dto

import (
	"time"

	"digivera_backend/internal/models"
)

type CheckoutResponse struct {
	URL string `json:"url"`
}

type SubscriptionResponse struct {
	Plan      string     `json:"plan"`
	Status    string     `json:"status,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
}

func NewSubscriptionResponse(plan models.UserPlan, sub *models.Subscription) *SubscriptionResponse {
	resp := &SubscriptionResponse{Plan: string(plan)}
	if sub != nil {
		resp.Status = string(sub.Status)
		resp.StartedAt = &sub.StartedAt
		resp.EndsAt = &sub.EndsAt
	}
	return resp
}
