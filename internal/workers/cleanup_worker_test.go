package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"digivera_backend/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeRefreshTokenStore struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *fakeRefreshTokenStore) Create(*models.RefreshToken) error { return nil }

func (s *fakeRefreshTokenStore) FindByToken(string) (*models.RefreshToken, error) {
	return nil, nil
}

func (s *fakeRefreshTokenStore) DeleteByToken(string) error { return nil }
func (s *fakeRefreshTokenStore) DeleteByUser(string) error  { return nil }

func (s *fakeRefreshTokenStore) CleanExpired() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *fakeRefreshTokenStore) cleanCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestCleanupWorkerPurgesOnStartAndOnTick(t *testing.T) {
	store := &fakeRefreshTokenStore{}
	worker := &CleanupWorker{refreshTokenRepo: store, interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	// One sweep on startup, then at least one more from the ticker
	require.Eventually(t, func() bool { return store.cleanCalls() >= 2 },
		time.Second, time.Millisecond)
}

func TestCleanupWorkerKeepsRunningAfterPurgeError(t *testing.T) {
	store := &fakeRefreshTokenStore{err: errors.New("connection refused")}
	worker := &CleanupWorker{refreshTokenRepo: store, interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)

	require.Eventually(t, func() bool { return store.cleanCalls() >= 3 },
		time.Second, time.Millisecond)
}
