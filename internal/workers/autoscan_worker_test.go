package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"digivera_backend/internal/models"
	"digivera_backend/internal/services"
	"digivera_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanService struct {
	results map[string]*dto.ScanResult
	errs    map[string]error
	calls   []string
}

func (f *fakeScanService) RunAutoScan(ctx context.Context, user *models.User) (*dto.ScanResult, error) {
	f.calls = append(f.calls, user.ID)
	if err, ok := f.errs[user.ID]; ok {
		return nil, err
	}
	if result, ok := f.results[user.ID]; ok {
		return result, nil
	}
	return &dto.ScanResult{Severity: "low", RiskScore: 100}, nil
}

func (f *fakeScanService) RunManualScan(ctx context.Context, userID string, req *dto.RunScanRequest) (*dto.ScanResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeScanService) GetLatestScan(userID string) (*models.Scan, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeScanService) GetHistory(userID string, page, pageSize int) (*dto.ScanHistoryResponse, error) {
	return nil, errors.New("not implemented")
}

type fakeUserRepo struct {
	proUsers []models.User
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error)         { return nil, errors.New("not implemented") }
func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error)  { return nil, errors.New("not implemented") }
func (r *fakeUserRepo) FindByResetToken(t string) (*models.User, error) { return nil, errors.New("not implemented") }
func (r *fakeUserRepo) Create(user *models.User) error                  { return nil }
func (r *fakeUserRepo) Update(user *models.User) error                  { return nil }
func (r *fakeUserRepo) UpdatePlan(id string, plan models.UserPlan) error {
	return nil
}
func (r *fakeUserRepo) UpdateScanResult(id string, score int, at *time.Time) error { return nil }
func (r *fakeUserRepo) DeleteWithOwnedData(id string) error                        { return nil }

func (r *fakeUserRepo) FindByPlan(plan models.UserPlan) ([]models.User, error) {
	if plan == models.PlanPro {
		return r.proUsers, nil
	}
	return nil, nil
}

type recordingProvider struct {
	sent []string // recipient addresses
}

func (p *recordingProvider) Send(to, subject, htmlBody string) error {
	p.sent = append(p.sent, to)
	return nil
}

func proUser(id, email string) models.User {
	return models.User{
		BaseModel: models.BaseModel{ID: id},
		Name:      "Pro User",
		Email:     email,
		Plan:      models.PlanPro,
	}
}

func TestNextWeeklyRun(t *testing.T) {
	loc := time.UTC

	// Wednesday -> following Monday 09:00
	wednesday := time.Date(2026, time.August, 26, 14, 0, 0, 0, loc)
	next := nextWeeklyRun(wednesday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, time.Date(2026, time.August, 31, 9, 0, 0, 0, loc), next)

	// Monday before 09:00 -> same day
	mondayMorning := time.Date(2026, time.August, 31, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, time.August, 31, 9, 0, 0, 0, loc), nextWeeklyRun(mondayMorning))

	// Monday after 09:00 -> one week later
	mondayAfternoon := time.Date(2026, time.August, 31, 10, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, time.September, 7, 9, 0, 0, 0, loc), nextWeeklyRun(mondayAfternoon))
}

func TestNextWeeklyRunAlwaysInFuture(t *testing.T) {
	now := time.Now()
	for day := 0; day < 8; day++ {
		at := now.AddDate(0, 0, day)
		assert.True(t, nextWeeklyRun(at).After(at))
	}
}

func TestRunWeeklyScansIsolatesFailures(t *testing.T) {
	scanService := &fakeScanService{
		errs: map[string]error{"user-a": errors.New("provider blew up")},
	}
	userRepo := &fakeUserRepo{proUsers: []models.User{
		proUser("user-a", "a@example.com"),
		proUser("user-b", "b@example.com"),
		proUser("user-c", "c@example.com"),
	}}

	worker := NewAutoScanWorker(userRepo, scanService, &recordingProvider{})
	worker.runWeeklyScans(context.Background())

	assert.Equal(t, []string{"user-a", "user-b", "user-c"}, scanService.calls,
		"a failing user must not stop the rest of the batch")
}

func TestScanUserSkipsUsersWithoutPreviousScan(t *testing.T) {
	scanService := &fakeScanService{
		errs: map[string]error{"user-a": services.ErrNoPreviousScan},
	}
	provider := &recordingProvider{}
	worker := NewAutoScanWorker(&fakeUserRepo{}, scanService, provider)

	user := proUser("user-a", "a@example.com")
	err := worker.scanUser(context.Background(), &user)

	assert.NoError(t, err, "no previous scan is a skip, not a failure")
	assert.Empty(t, provider.sent)
}

func TestScanUserNotifiesOnMediumSeverity(t *testing.T) {
	scanService := &fakeScanService{
		results: map[string]*dto.ScanResult{
			"user-a": {
				ScanTarget: "email",
				RiskScore:  70,
				Severity:   "medium",
				Findings:   models.Findings{PublicExposure: 6},
			},
		},
	}
	provider := &recordingProvider{}
	worker := NewAutoScanWorker(&fakeUserRepo{}, scanService, provider)

	user := proUser("user-a", "a@example.com")
	require.NoError(t, worker.scanUser(context.Background(), &user))

	assert.Equal(t, []string{"a@example.com"}, provider.sent)
}

func TestScanUserStaysQuietOnLowSeverity(t *testing.T) {
	scanService := &fakeScanService{
		results: map[string]*dto.ScanResult{
			"user-a": {ScanTarget: "email", RiskScore: 95, Severity: "low"},
		},
	}
	provider := &recordingProvider{}
	worker := NewAutoScanWorker(&fakeUserRepo{}, scanService, provider)

	user := proUser("user-a", "a@example.com")
	require.NoError(t, worker.scanUser(context.Background(), &user))

	assert.Empty(t, provider.sent)
}
