package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digivera_backend/internal/exposure"
	"digivera_backend/internal/logger"
	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/scoring"
	"digivera_backend/internal/services/dto"
	"digivera_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// ErrNoPreviousScan signals that an automatic re-scan has no target to reuse
// because the user never ran a manual scan.
var ErrNoPreviousScan = errors.New("no previous scan for user")

const limitedDataNote = "Public exposure sources were unavailable; the score was computed from limited data."

type ScanService interface {
	// RunManualScan executes the full pipeline for a user-initiated scan,
	// enforcing the free-plan monthly quota and stamping lastManualScanAt.
	RunManualScan(ctx context.Context, userID string, req *dto.RunScanRequest) (*dto.ScanResult, error)

	// RunAutoScan re-runs the pipeline against the user's most recent scan
	// target. No quota is consumed and lastManualScanAt is untouched.
	RunAutoScan(ctx context.Context, user *models.User) (*dto.ScanResult, error)

	GetLatestScan(userID string) (*models.Scan, error)
	GetHistory(userID string, page, pageSize int) (*dto.ScanHistoryResponse, error)
}

type ScanServiceImpl struct {
	userRepo  repositories.UserRepository
	scanRepo  repositories.ScanRepository
	alertRepo repositories.AlertRepository
	exposure  exposure.Checker

	now func() time.Time
}

func NewScanService(
	userRepo repositories.UserRepository,
	scanRepo repositories.ScanRepository,
	alertRepo repositories.AlertRepository,
	checker exposure.Checker,
) *ScanServiceImpl {
	return &ScanServiceImpl{
		userRepo:  userRepo,
		scanRepo:  scanRepo,
		alertRepo: alertRepo,
		exposure:  checker,
		now:       time.Now,
	}
}

func (s *ScanServiceImpl) RunManualScan(ctx context.Context, userID string, req *dto.RunScanRequest) (*dto.ScanResult, error) {
	target := models.ScanTarget(req.ScanTarget)
	if !target.Valid() {
		return nil, apperrors.ErrInvalidScanTarget
	}
	if req.TargetValue == "" {
		return nil, apperrors.ErrEmptyTargetValue
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.checkQuota(user); err != nil {
		return nil, err
	}

	return s.runPipeline(ctx, user, target, req.TargetValue, true)
}

func (s *ScanServiceImpl) RunAutoScan(ctx context.Context, user *models.User) (*dto.ScanResult, error) {
	latest, err := s.scanRepo.FindLatestByUser(user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrScanNotFound) {
			return nil, ErrNoPreviousScan
		}
		return nil, apperrors.InternalError(err)
	}

	return s.runPipeline(ctx, user, latest.ScanTarget, latest.TargetValue, false)
}

// checkQuota enforces one manual scan per calendar month for free users.
// The quota is keyed off the month/year of lastManualScanAt, so a scan on
// Jan 15 blocks until Feb 1 regardless of the day spacing.
func (s *ScanServiceImpl) checkQuota(user *models.User) error {
	if user.Plan == models.PlanPro {
		return nil
	}
	if user.LastManualScanAt == nil {
		return nil
	}

	now := s.now()
	last := *user.LastManualScanAt
	if last.Month() == now.Month() && last.Year() == now.Year() {
		nextScan := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		return apperrors.ErrScanQuotaExceeded(nextScan)
	}
	return nil
}

// runPipeline is the shared orchestration for manual and automatic scans:
// exposure lookup, scoring, scan persistence, alert evaluation, user update.
// Any failure before the scan is persisted aborts the request; failures after
// that point are logged and the scan still completes.
func (s *ScanServiceImpl) runPipeline(ctx context.Context, user *models.User, target models.ScanTarget, value string, manual bool) (*dto.ScanResult, error) {
	log := logger.FromContext(ctx)

	var findings models.Findings
	var note string

	// Exposure lookups are email-only; name targets get zero findings
	// rather than fabricated data.
	if target == models.ScanTargetEmail {
		result := s.exposure.CheckEmail(ctx, value)
		if result.Err != "" {
			note = limitedDataNote
		} else {
			findings.PublicExposure = result.Count
		}
	}

	scored := scoring.Compute(findings)

	// The previous scan of this exact target is loaded before the new one
	// is persisted; it feeds the alert trend comparison.
	previous, err := s.scanRepo.FindLatestByUserAndTarget(user.ID, target, value)
	if err != nil && !errors.Is(err, repositories.ErrScanNotFound) {
		return nil, apperrors.InternalError(err)
	}

	scan := &models.Scan{
		UserID:      user.ID,
		ScanTarget:  target,
		TargetValue: value,
		Findings:    datatypes.NewJSONType(findings),
		RiskScore:   scored.Score,
	}
	if err := s.scanRepo.Create(scan); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan", "Failed to persist scan", 500)
	}

	// Past this point the scan exists; alert and user-update failures are
	// recoverable inconsistencies, not request failures.
	if shouldAlert(scored.Severity, findings, previous) {
		alert := s.buildAlert(user.ID, target, value, findings, scored.Severity)
		if err := s.alertRepo.Create(alert); err != nil {
			log.Error("failed to persist alert after scan", "error", err, "scan_id", scan.ID)
		}
	}

	var manualAt *time.Time
	if manual {
		now := s.now()
		manualAt = &now
	}
	if err := s.userRepo.UpdateScanResult(user.ID, scored.Score, manualAt); err != nil {
		log.Error("failed to update user after scan", "error", err, "scan_id", scan.ID)
	}

	return &dto.ScanResult{
		ScanID:      scan.ID,
		ScanTarget:  string(target),
		TargetValue: value,
		Findings:    findings,
		RiskScore:   scored.Score,
		Severity:    string(scored.Severity),
		Explanation: scored.Explanation,
		Note:        note,
		ScannedAt:   scan.CreatedAt,
	}, nil
}

// shouldAlert implements the alert policy: only medium/high severity alerts,
// and only when exposure is newly detected or has grown since the previous
// scan of the same target. Flat or improving exposure stays quiet.
func shouldAlert(severity models.AlertSeverity, current models.Findings, previous *models.Scan) bool {
	if severity != models.SeverityMedium && severity != models.SeverityHigh {
		return false
	}
	if previous == nil {
		return true
	}
	return current.PublicExposure > previous.Findings.Data().PublicExposure
}

func (s *ScanServiceImpl) buildAlert(userID string, target models.ScanTarget, value string, findings models.Findings, severity models.AlertSeverity) *models.Alert {
	alertType := models.AlertTypeMention
	if findings.PublicExposure > 0 {
		alertType = models.AlertTypeExposure
	}

	var message string
	if severity == models.SeverityHigh {
		message = fmt.Sprintf(
			`Critical: Your %s "%s" has %d public exposure(s) and %d public mention(s). Immediate action required!`,
			target, value, findings.PublicExposure, findings.PublicMentions,
		)
	} else {
		message = fmt.Sprintf(
			`Warning: Your %s "%s" has %d public exposure(s) and %d public mention(s). Review recommended.`,
			target, value, findings.PublicExposure, findings.PublicMentions,
		)
	}

	return &models.Alert{
		UserID:   userID,
		Type:     alertType,
		Severity: severity,
		Message:  message,
	}
}

func (s *ScanServiceImpl) GetLatestScan(userID string) (*models.Scan, error) {
	scan, err := s.scanRepo.FindLatestByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrScanNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return scan, nil
}

func (s *ScanServiceImpl) GetHistory(userID string, page, pageSize int) (*dto.ScanHistoryResponse, error) {
	offset := (page - 1) * pageSize

	scans, err := s.scanRepo.FindByUser(userID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	total, err := s.scanRepo.CountByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &dto.ScanHistoryResponse{
		Scans: scans,
		Pagination: dto.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			PageSize:    pageSize,
		},
	}, nil
}
