package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
)

// fakeTxManager runs fn inline. serializableFailures injects lost
// serialization races before fn is ever invoked.
type fakeTxManager struct {
	serializableFailures int
	serializableCalls    int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.serializableCalls++
	if f.serializableFailures > 0 {
		f.serializableFailures--
		return apperror.NewConcurrency("transaction", "40001")
	}
	return fn(ctx)
}

type fakeRepo struct {
	periods           map[id.ID]*RatePeriod
	lastUpdateVersion int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{periods: make(map[id.ID]*RatePeriod)}
}

func (r *fakeRepo) Create(ctx context.Context, p *RatePeriod) error {
	clone := *p
	r.periods[p.ID] = &clone
	return nil
}

// Update enforces the store's optimistic lock: the caller's version must
// equal the stored one, and the store owns the increment.
func (r *fakeRepo) Update(ctx context.Context, p *RatePeriod) error {
	stored, ok := r.periods[p.ID]
	if !ok {
		return apperror.NewNotFound("rate period", p.ID)
	}
	r.lastUpdateVersion = p.Version
	if p.Version != stored.Version {
		return apperror.NewConcurrency("rate_periods", p.ID)
	}
	clone := *p
	clone.Version = stored.Version + 1
	r.periods[p.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, periodID id.ID) (*RatePeriod, error) {
	p, ok := r.periods[periodID]
	if !ok {
		return nil, apperror.NewNotFound("rate period", periodID)
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepo) ListByScope(ctx context.Context, scope Scope, activeOnly bool) ([]*RatePeriod, error) {
	var out []*RatePeriod
	for _, p := range r.periods {
		if p.Scope != scope {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) FindCovering(ctx context.Context, scope Scope, d time.Time) ([]*RatePeriod, error) {
	var out []*RatePeriod
	for _, p := range r.periods {
		if p.Scope == scope && p.Active && p.Covers(d) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestService_Create_RejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	first := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, first))

	second := NewRatePeriod("hotel:h1", "Mid Summer", date(2026, 7, 1), date(2026, 7, 15), "USD", testTiers())
	err := svc.Create(ctx, second)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRatePeriodOverlap, appErr.Code)
	assert.Len(t, repo.periods, 1)
}

func TestService_Create_RetriesSerializationFailure(t *testing.T) {
	repo := newFakeRepo()
	txm := &fakeTxManager{serializableFailures: 2}
	svc := NewService(repo, txm)

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(context.Background(), p))
	assert.Equal(t, 3, txm.serializableCalls)
}

func TestService_Create_ExhaustedRetriesAreTransient(t *testing.T) {
	repo := newFakeRepo()
	txm := &fakeTxManager{serializableFailures: 10}
	svc := NewService(repo, txm)

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	err := svc.Create(context.Background(), p)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeTransient, appErr.Code)
	assert.Equal(t, 3, txm.serializableCalls)
}

func TestService_Update_AllowsOwnInterval(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, p))

	// Extending the same period must not conflict with itself.
	p.ValidTo = date(2026, 9, 15)
	assert.NoError(t, svc.Update(ctx, p))
}

func TestService_Update_LocksOnLoadedVersion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, p))
	loaded := repo.periods[p.ID].Version

	p.ValidTo = date(2026, 9, 15)
	require.NoError(t, svc.Update(ctx, p))

	// The repo must see the loaded version as its lock predicate; it owns
	// the increment itself.
	assert.Equal(t, loaded, repo.lastUpdateVersion)
	assert.Equal(t, loaded+1, repo.periods[p.ID].Version)
	assert.Equal(t, loaded+1, p.Version)
}

func TestService_Deactivate_LocksOnLoadedVersion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, p))
	loaded := repo.periods[p.ID].Version

	require.NoError(t, svc.Deactivate(ctx, p.ID))

	assert.Equal(t, loaded, repo.lastUpdateVersion)
	assert.Equal(t, loaded+1, repo.periods[p.ID].Version)
}

func TestService_Deactivate_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	p := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, p))

	require.NoError(t, svc.Deactivate(ctx, p.ID))
	require.NoError(t, svc.Deactivate(ctx, p.ID))

	stored, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestService_Resolve(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeTxManager{})
	ctx := context.Background()

	summer := NewRatePeriod("hotel:h1", "Summer", date(2026, 6, 1), date(2026, 8, 31), "USD", testTiers())
	require.NoError(t, svc.Create(ctx, summer))

	t.Run("match", func(t *testing.T) {
		quote, err := svc.Resolve(ctx, "hotel:h1", date(2026, 7, 10), 3)
		require.NoError(t, err)
		assert.Equal(t, "Summer", quote.Label)
		assert.Equal(t, 4, quote.Bucket)
		assert.Equal(t, "80.00", quote.Price.StringFixed(2))
		assert.False(t, quote.Approximate)
	})

	t.Run("no covering period", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "hotel:h1", date(2026, 12, 25), 2)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "hotel:other", date(2026, 7, 10), 2)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("missing scope", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "", date(2026, 7, 10), 2)
		assert.Error(t, err)
	})

	t.Run("deactivated period not resolvable", func(t *testing.T) {
		require.NoError(t, svc.Deactivate(ctx, summer.ID))
		_, err := svc.Resolve(ctx, "hotel:h1", date(2026, 7, 10), 2)
		assert.True(t, apperror.IsNotFound(err))
	})
}
