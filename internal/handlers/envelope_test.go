package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"digivera_backend/internal/auth"
	"digivera_backend/internal/config"
	"digivera_backend/internal/models"
	"digivera_backend/internal/services/dto"
	"digivera_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

type stubAuthService struct{}

func (stubAuthService) Register(*dto.RegisterRequest) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
}

func (stubAuthService) Login(*dto.LoginRequest) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil
}

func (stubAuthService) RefreshToken(string) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{AccessToken: "rotated-access", RefreshToken: "rotated-refresh"}, nil
}

func (stubAuthService) Logout(string) error               { return nil }
func (stubAuthService) RequestPasswordReset(string) error { return nil }
func (stubAuthService) ResetPassword(string, string) error {
	return nil
}

type stubScanService struct{}

func (stubScanService) RunManualScan(_ context.Context, _ string, req *dto.RunScanRequest) (*dto.ScanResult, error) {
	return &dto.ScanResult{
		ScanID:      "scan-1",
		ScanTarget:  req.ScanTarget,
		TargetValue: req.TargetValue,
		RiskScore:   90,
		Severity:    "low",
	}, nil
}

func (stubScanService) RunAutoScan(context.Context, *models.User) (*dto.ScanResult, error) {
	return nil, nil
}

func (stubScanService) GetLatestScan(string) (*models.Scan, error) {
	return &models.Scan{}, nil
}

func (stubScanService) GetHistory(string, int, int) (*dto.ScanHistoryResponse, error) {
	return &dto.ScanHistoryResponse{}, nil
}

// envelope mirrors the response shape every success path must produce.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEnvelopeRouter() *gin.Engine {
	base := NewBaseHandler(validator.New())
	router := gin.New()
	api := router.Group("/api/v1")
	NewAuthHandler(base, stubAuthService{}).RegisterRoutes(api)
	NewScanHandler(base, stubScanService{}).RegisterRoutes(api)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestLoginResponseUsesEnvelope(t *testing.T) {
	router := newEnvelopeRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"dana@example.com","password":"secret-1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)

	var data struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "access-token", data.AccessToken)
	assert.Equal(t, "refresh-token", data.RefreshToken)
}

func TestRegisterResponseUsesEnvelope(t *testing.T) {
	router := newEnvelopeRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/register",
		`{"name":"Dana","email":"dana@example.com","password":"secret-1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)
	assert.Contains(t, string(env.Data), "accessToken")
}

func TestRunScanResponseUsesEnvelope(t *testing.T) {
	router := newEnvelopeRouter()

	token, err := auth.GenerateToken("user-1")
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/scan",
		`{"scanTarget":"email","targetValue":"dana@example.com"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)

	var data struct {
		RiskScore int    `json:"riskScore"`
		Severity  string `json:"severity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 90, data.RiskScore)
	assert.Equal(t, "low", data.Severity)
}

func TestMessageOnlyResponseCarriesDataKey(t *testing.T) {
	router := newEnvelopeRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/auth/logout",
		`{"refreshToken":"some-token"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)

	// data is always present, null when the operation returns nothing
	assert.Contains(t, rec.Body.String(), `"data"`)
}
