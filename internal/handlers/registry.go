package handlers

import (
	"digivera_backend/internal/services"
	"digivera_backend/internal/validator"
)

// AppHandlers holds every HTTP handler in the application
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Scan         *ScanHandler
	Alert        *AlertHandler
	Subscription *SubscriptionHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, sc.AuthService),
		User:         NewUserHandler(base, sc.UserService),
		Scan:         NewScanHandler(base, sc.ScanService),
		Alert:        NewAlertHandler(base, sc.AlertService),
		Subscription: NewSubscriptionHandler(base, sc.SubscriptionService),
	}
}
