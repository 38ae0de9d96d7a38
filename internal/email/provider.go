package email

import "digivera_backend/internal/logger"

// Provider sends transactional email. Delivery is fire-and-forget from the
// caller's perspective: failures are logged, never retried.
type Provider interface {
	Send(to, subject, htmlBody string) error
}

// MockProvider logs instead of sending; used in development and tests
type MockProvider struct{}

func (m *MockProvider) Send(to, subject, htmlBody string) error {
	logger.Info("mock email provider: message not sent", "to", to, "subject", subject)
	return nil
}
