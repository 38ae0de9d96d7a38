package services

import (
	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/services/dto"
	"digivera_backend/pkg/apperrors"
)

type AlertService interface {
	List(userID string, filter repositories.AlertFilter) (*dto.AlertListResponse, error)

	// MarkRead flips isRead once. Marking an already-read alert is a no-op
	// that returns the alert unchanged.
	MarkRead(userID, alertID string) (*models.Alert, error)
}

type AlertServiceImpl struct {
	alertRepo repositories.AlertRepository
}

func NewAlertService(alertRepo repositories.AlertRepository) AlertService {
	return &AlertServiceImpl{alertRepo: alertRepo}
}

func (s *AlertServiceImpl) List(userID string, filter repositories.AlertFilter) (*dto.AlertListResponse, error) {
	alerts, err := s.alertRepo.FindByUser(userID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.alertRepo.CountUnread(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AlertListResponse{
		Alerts:      alerts,
		TotalAlerts: len(alerts),
		UnreadCount: unread,
	}, nil
}

func (s *AlertServiceImpl) MarkRead(userID, alertID string) (*models.Alert, error) {
	alert, err := s.alertRepo.FindByIDAndUser(alertID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAlertNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if alert.IsRead {
		return alert, nil
	}

	alert.IsRead = true
	if err := s.alertRepo.Update(alert); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return alert, nil
}
