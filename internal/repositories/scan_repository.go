package repositories

import (
	"errors"

	"digivera_backend/internal/models"

	"gorm.io/gorm"
)

var ErrScanNotFound = errors.New("scan not found")

type ScanRepository interface {
	Create(scan *models.Scan) error

	// FindLatestByUser returns the most recent scan for the user.
	FindLatestByUser(userID string) (*models.Scan, error)

	// FindLatestByUserAndTarget returns the most recent scan for the exact
	// (target, value) pair, used by the alert policy for trend comparison.
	FindLatestByUserAndTarget(userID string, target models.ScanTarget, value string) (*models.Scan, error)

	FindByUser(userID string, limit, offset int) ([]models.Scan, error)
	CountByUser(userID string) (int64, error)
}

type ScanRepositoryImpl struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &ScanRepositoryImpl{db: db}
}

func (r *ScanRepositoryImpl) Create(scan *models.Scan) error {
	return r.db.Create(scan).Error
}

func (r *ScanRepositoryImpl) FindLatestByUser(userID string) (*models.Scan, error) {
	var scan models.Scan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (r *ScanRepositoryImpl) FindLatestByUserAndTarget(userID string, target models.ScanTarget, value string) (*models.Scan, error) {
	var scan models.Scan
	err := r.db.Where("user_id = ? AND scan_target = ? AND target_value = ?", userID, target, value).
		Order("created_at DESC").
		First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}
	return &scan, nil
}

func (r *ScanRepositoryImpl) FindByUser(userID string, limit, offset int) ([]models.Scan, error) {
	var scans []models.Scan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&scans).Error
	return scans, err
}

func (r *ScanRepositoryImpl) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Scan{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
