package services

import "digivera_backend/internal/email"

// ServiceContainer holds all application services
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ScanService         ScanService
	AlertService        AlertService
	SubscriptionService SubscriptionService
	EmailService        email.Provider
}
