package repositories

import (
	"errors"

	"digivera_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAlertNotFound = errors.New("alert not found")

// AlertFilter narrows alert listings. Nil fields mean "no filter".
type AlertFilter struct {
	IsRead   *bool
	Severity models.AlertSeverity
}

type AlertRepository interface {
	Create(alert *models.Alert) error
	FindByUser(userID string, filter AlertFilter) ([]models.Alert, error)
	FindByIDAndUser(alertID, userID string) (*models.Alert, error)
	CountUnread(userID string) (int64, error)
	Update(alert *models.Alert) error
}

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

func (r *AlertRepositoryImpl) FindByUser(userID string, filter AlertFilter) ([]models.Alert, error) {
	query := r.db.Where("user_id = ?", userID)

	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}

	var alerts []models.Alert
	err := query.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) FindByIDAndUser(alertID, userID string) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Alert{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *AlertRepositoryImpl) Update(alert *models.Alert) error {
	return r.db.Save(alert).Error
}
