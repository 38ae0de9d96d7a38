package services

import (
	"testing"

	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertListCountsUnread(t *testing.T) {
	alertRepo := &fakeAlertRepo{alerts: []*models.Alert{
		{BaseModel: models.BaseModel{ID: "a1"}, UserID: "user-1", Severity: models.SeverityHigh},
		{BaseModel: models.BaseModel{ID: "a2"}, UserID: "user-1", Severity: models.SeverityMedium, IsRead: true},
		{BaseModel: models.BaseModel{ID: "a3"}, UserID: "user-2", Severity: models.SeverityHigh},
	}}
	svc := NewAlertService(alertRepo)

	resp, err := svc.List("user-1", repositories.AlertFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalAlerts)
	assert.Equal(t, int64(1), resp.UnreadCount)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	alertRepo := &fakeAlertRepo{alerts: []*models.Alert{
		{BaseModel: models.BaseModel{ID: "a1"}, UserID: "user-1"},
	}}
	svc := NewAlertService(alertRepo)

	first, err := svc.MarkRead("user-1", "a1")
	require.NoError(t, err)
	assert.True(t, first.IsRead)

	second, err := svc.MarkRead("user-1", "a1")
	require.NoError(t, err)
	assert.True(t, second.IsRead)
}

func TestMarkReadRejectsForeignAlert(t *testing.T) {
	alertRepo := &fakeAlertRepo{alerts: []*models.Alert{
		{BaseModel: models.BaseModel{ID: "a1"}, UserID: "user-2"},
	}}
	svc := NewAlertService(alertRepo)

	_, err := svc.MarkRead("user-1", "a1")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code, "another user's alert must look like it does not exist")
}
