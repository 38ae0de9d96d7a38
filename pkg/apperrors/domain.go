package apperrors

import (
	"net/http"
	"time"
)

// Factories for wrapping repository-level errors

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrScanQuotaExceeded is returned when a free-plan user has already run a
// manual scan this calendar month. Details carry the next eligible date.
func ErrScanQuotaExceeded(nextScanAvailable time.Time) *AppError {
	return New(
		CodeQuotaExceeded,
		"scan",
		"Free plan allows only 1 scan per month. Upgrade to Pro for unlimited scans.",
		http.StatusForbidden,
	).WithDetails(map[string]interface{}{
		"plan":              "free",
		"scansPerMonth":     1,
		"nextScanAvailable": nextScanAvailable,
	})
}

// ErrInvalidScanTarget rejects scan targets outside {email, name}
var ErrInvalidScanTarget = New(
	CodeValidationFailed,
	"scan",
	`scanTarget must be either "email" or "name"`,
	http.StatusBadRequest,
)

var ErrEmptyTargetValue = New(
	CodeValidationFailed,
	"scan",
	"targetValue must not be empty",
	http.StatusBadRequest,
)

// --- Auth ---

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// --- Subscriptions & payments ---

var ErrSubscriptionNotFound = New(
	CodeNotFound,
	"subscription",
	"No subscription found for this user",
	http.StatusNotFound,
)

var ErrAlreadySubscribed = New(
	CodeInvalidOperation,
	"subscription",
	"User already has an active subscription",
	http.StatusBadRequest,
)

var ErrPaymentProviderError = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider error",
	http.StatusServiceUnavailable,
)
