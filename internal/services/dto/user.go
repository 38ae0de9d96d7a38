package dto

import (
	"time"

	"digivera_backend/internal/models"
)

type UserResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Plan             string     `json:"plan"`
	ReputationScore  int        `json:"reputationScore"`
	LastManualScanAt *time.Time `json:"lastManualScanAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Plan:             string(user.Plan),
		ReputationScore:  user.ReputationScore,
		LastManualScanAt: user.LastManualScanAt,
		CreatedAt:        user.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
