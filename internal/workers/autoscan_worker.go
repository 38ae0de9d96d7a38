package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digivera_backend/internal/email"
	"digivera_backend/internal/logger"
	"digivera_backend/internal/models"
	"digivera_backend/internal/repositories"
	"digivera_backend/internal/services"
)

// AutoScanWorker re-scans every pro user once a week and emails them when
// the result warrants attention.
type AutoScanWorker struct {
	userRepo      repositories.UserRepository
	scanService   services.ScanService
	emailProvider email.Provider
}

func NewAutoScanWorker(
	userRepo repositories.UserRepository,
	scanService services.ScanService,
	emailProvider email.Provider,
) *AutoScanWorker {
	return &AutoScanWorker{
		userRepo:      userRepo,
		scanService:   scanService,
		emailProvider: emailProvider,
	}
}

func (w *AutoScanWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *AutoScanWorker) run(ctx context.Context) {
	for {
		next := nextWeeklyRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		logger.WorkerLog("autoscan", "next run scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.WorkerLog("autoscan", "worker stopped")
			return
		case <-timer.C:
			w.runWeeklyScans(ctx)
		}
	}
}

// nextWeeklyRun returns the next Monday 09:00 local time strictly after now.
func nextWeeklyRun(now time.Time) time.Time {
	daysAhead := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+daysAhead, 9, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

func (w *AutoScanWorker) runWeeklyScans(ctx context.Context) {
	users, err := w.userRepo.FindByPlan(models.PlanPro)
	if err != nil {
		logger.WorkerLog("autoscan", "failed to list pro users", "error", err)
		return
	}

	logger.WorkerLog("autoscan", "weekly run started", "users", len(users))

	scanned, failed := 0, 0
	for i := range users {
		if ctx.Err() != nil {
			logger.WorkerLog("autoscan", "weekly run interrupted", "scanned", scanned)
			return
		}

		// One bad user must not stop the batch
		if err := w.scanUser(ctx, &users[i]); err != nil {
			failed++
			logger.WorkerLog("autoscan", "user scan failed", "user_id", users[i].ID, "error", err)
			continue
		}
		scanned++
	}

	logger.WorkerLog("autoscan", "weekly run finished", "scanned", scanned, "failed", failed)
}

func (w *AutoScanWorker) scanUser(ctx context.Context, user *models.User) error {
	result, err := w.scanService.RunAutoScan(ctx, user)
	if err != nil {
		if errors.Is(err, services.ErrNoPreviousScan) {
			// Nothing to re-scan until the user runs a manual scan
			return nil
		}
		return err
	}

	severity := models.AlertSeverity(result.Severity)
	if severity != models.SeverityMedium && severity != models.SeverityHigh {
		return nil
	}

	subject := email.AlertSubject(severity)
	message := fmt.Sprintf("Your weekly scan of %s finished with a risk score of %d.", result.ScanTarget, result.RiskScore)
	body := email.AlertBody(user.Name, message, result.Findings, result.RiskScore, severity)

	if err := w.emailProvider.Send(user.Email, subject, body); err != nil {
		// The scan itself succeeded; a delivery failure is not a scan failure
		logger.WorkerLog("autoscan", "notification email failed", "user_id", user.ID, "error", err)
	}

	return nil
}
