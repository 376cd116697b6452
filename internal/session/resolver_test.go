package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nyeemonkham-stack/rta-library-webapp/internal/cache"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/models"
	"github.com/nyeemonkham-stack/rta-library-webapp/internal/repository"
)

// --- Mock RecordStore ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindByContact(ctx context.Context, email, phone string) (*models.SubscriptionProfile, error) {
	args := m.Called(ctx, email, phone)
	if p := args.Get(0); p != nil {
		return p.(*models.SubscriptionProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) LatestByEmail(ctx context.Context, email string) (*models.SubscriptionProfile, error) {
	args := m.Called(ctx, email)
	if p := args.Get(0); p != nil {
		return p.(*models.SubscriptionProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- In-memory ProfileCache ---

type memCache struct {
	mu       sync.Mutex
	profiles map[string]models.SubscriptionProfile
	saveErr  error
}

func newMemCache() *memCache {
	return &memCache{profiles: make(map[string]models.SubscriptionProfile)}
}

func (c *memCache) Save(ctx context.Context, p *models.SubscriptionProfile) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.ID] = *p
	return nil
}

func (c *memCache) Load(ctx context.Context, id string) (*models.SubscriptionProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &p, nil
}

func (c *memCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.profiles, id)
	return nil
}

func (c *memCache) SessionIDs(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.profiles))
	for id := range c.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

func testProfile(id, status string) *models.SubscriptionProfile {
	return &models.SubscriptionProfile{
		ID:             id,
		FullName:       "Aung Kyaw",
		Email:          "aung@example.com",
		Phone:          "0912345678",
		TelegramHandle: "@aungkyaw",
		Plan:           models.PlanProfessional,
		DurationMonths: 12,
		Format:         models.FormatMax,
		ApprovalStatus: status,
	}
}

func TestRestore(t *testing.T) {
	mc := newMemCache()
	r := NewResolver(&mockStore{}, mc)
	ctx := context.Background()

	_, err := r.Restore(ctx, "sub-1")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, mc.Save(ctx, testProfile("sub-1", models.StatusPending)))

	p, err := r.Restore(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", p.ID)
	assert.Equal(t, models.StatusPending, p.ApprovalStatus)
}

func TestResolveByContact(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	r := NewResolver(ms, mc)
	ctx := context.Background()

	want := testProfile("sub-1", models.StatusApproved)
	ms.On("FindByContact", mock.Anything, "aung@example.com", "0912345678").Return(want, nil)

	p, err := r.ResolveByContact(ctx, "aung@example.com", "0912345678")
	require.NoError(t, err)
	assert.Equal(t, want, p)

	// login establishes the active session in the cache
	cached, err := mc.Load(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", cached.ID)
	ms.AssertExpectations(t)
}

func TestResolveByContactNotFound(t *testing.T) {
	ms := &mockStore{}
	r := NewResolver(ms, newMemCache())

	// zero matches and many matches are the same outcome at the store layer
	ms.On("FindByContact", mock.Anything, "a@example.com", "091234").Return(nil, repository.ErrNotFound)

	_, err := r.ResolveByContact(context.Background(), "a@example.com", "091234")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveByContactCacheFailureIsNotFatal(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	mc.saveErr = errors.New("redis down")
	r := NewResolver(ms, mc)

	want := testProfile("sub-1", models.StatusPending)
	ms.On("FindByContact", mock.Anything, mock.Anything, mock.Anything).Return(want, nil)

	p, err := r.ResolveByContact(context.Background(), "aung@example.com", "0912345678")
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestRefreshStatusAppliesNewStatus(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	r := NewResolver(ms, mc)
	ctx := context.Background()

	p := testProfile("sub-1", models.StatusPending)
	require.NoError(t, mc.Save(ctx, p))

	ms.On("LatestByEmail", mock.Anything, "aung@example.com").Return(testProfile("sub-1", models.StatusApproved), nil)

	status, err := r.RefreshStatus(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
	assert.Equal(t, models.StatusApproved, p.ApprovalStatus)

	cached, err := mc.Load(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, cached.ApprovalStatus)
}

func TestRefreshStatusOnlyTouchesStatus(t *testing.T) {
	ms := &mockStore{}
	r := NewResolver(ms, newMemCache())

	p := testProfile("sub-1", models.StatusPending)

	// the newest record differs in more than status; only status may move
	latest := testProfile("sub-2", models.StatusApproved)
	latest.Plan = models.PlanPremium
	latest.Format = models.FormatBoth
	ms.On("LatestByEmail", mock.Anything, "aung@example.com").Return(latest, nil)

	_, err := r.RefreshStatus(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "sub-1", p.ID)
	assert.Equal(t, models.PlanProfessional, p.Plan)
	assert.Equal(t, models.FormatMax, p.Format)
	assert.Equal(t, models.StatusApproved, p.ApprovalStatus)
}

func TestRefreshStatusNoRecordIsNoOp(t *testing.T) {
	ms := &mockStore{}
	r := NewResolver(ms, newMemCache())

	p := testProfile("sub-1", models.StatusPending)
	ms.On("LatestByEmail", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

	status, err := r.RefreshStatus(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
}

func TestRefreshStatusFailureKeepsLastKnown(t *testing.T) {
	ms := &mockStore{}
	r := NewResolver(ms, newMemCache())

	p := testProfile("sub-1", models.StatusApproved)
	ms.On("LatestByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("store unavailable"))

	status, err := r.RefreshStatus(context.Background(), p)
	assert.Error(t, err)
	assert.Equal(t, models.StatusApproved, status)
	assert.Equal(t, models.StatusApproved, p.ApprovalStatus)
}

func TestLogoutClearsCacheOnly(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	r := NewResolver(ms, mc)
	ctx := context.Background()

	require.NoError(t, mc.Save(ctx, testProfile("sub-1", models.StatusApproved)))
	require.NoError(t, r.Logout(ctx, "sub-1"))

	_, err := r.Restore(ctx, "sub-1")
	assert.ErrorIs(t, err, ErrNoSession)
	// no record-store calls were expected or made
	ms.AssertExpectations(t)
}

func TestPollerRefreshesCachedSessions(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	r := NewResolver(ms, mc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, mc.Save(ctx, testProfile("sub-1", models.StatusPending)))
	ms.On("LatestByEmail", mock.Anything, "aung@example.com").Return(testProfile("sub-1", models.StatusApproved), nil)

	poller := NewStatusPoller(r, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		p, err := mc.Load(context.Background(), "sub-1")
		return err == nil && p.ApprovalStatus == models.StatusApproved
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestPollerSurvivesStoreErrors(t *testing.T) {
	ms := &mockStore{}
	mc := newMemCache()
	r := NewResolver(ms, mc)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, mc.Save(ctx, testProfile("sub-1", models.StatusPending)))
	ms.On("LatestByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("store unavailable"))

	poller := NewStatusPoller(r, 5*time.Millisecond)
	go poller.Run(ctx)

	time.Sleep(40 * time.Millisecond)
	cancel()

	// failures never clear the cached status
	p, err := mc.Load(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, p.ApprovalStatus)
}
