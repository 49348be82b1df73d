package voucher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/sequence"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	vouchers map[id.ID]*Voucher
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{vouchers: make(map[id.ID]*Voucher)}
}

func (r *fakeRepo) Create(ctx context.Context, v *Voucher) error {
	r.vouchers[v.ID] = v
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, voucherID id.ID) (*Voucher, error) {
	v, ok := r.vouchers[voucherID]
	if !ok {
		return nil, apperror.NewNotFound("voucher", voucherID)
	}
	return v, nil
}

func (r *fakeRepo) ListByBooking(ctx context.Context, bookingID id.ID) ([]*Voucher, error) {
	var out []*Voucher
	for _, v := range r.vouchers {
		if v.BookingID == bookingID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeRepo) ExistsForServiceItem(ctx context.Context, serviceItemID id.ID, voucherType Type) (bool, error) {
	for _, v := range r.vouchers {
		if v.ServiceItemID == serviceItemID && v.Type == voucherType {
			return true, nil
		}
	}
	return false, nil
}

func TestService_Issue(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &sequence.MockAllocator{}, fakeTxManager{})
	ctx := context.Background()

	v := New(id.New(), id.New(), TypeHotel)
	require.NoError(t, svc.Issue(ctx, v))

	assert.Regexp(t, `^VC-\d{8}-\d{4}$`, v.Number)
	assert.False(t, v.IssuedAt.IsZero())
	assert.Contains(t, repo.vouchers, v.ID)
}

func TestService_Issue_DuplicateDoesNotBurnNumber(t *testing.T) {
	repo := newFakeRepo()
	allocations := 0
	allocator := &sequence.MockAllocator{
		AllocateFunc: func(ctx context.Context, cfg sequence.Config, day time.Time) (string, error) {
			allocations++
			return "VC-20260301-0001", nil
		},
	}
	svc := NewService(repo, allocator, fakeTxManager{})
	ctx := context.Background()

	itemID := id.New()
	bookingID := id.New()

	first := New(bookingID, itemID, TypeTour)
	require.NoError(t, svc.Issue(ctx, first))
	require.Equal(t, 1, allocations)

	duplicate := New(bookingID, itemID, TypeTour)
	err := svc.Issue(ctx, duplicate)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicateVoucher, appErr.Code)

	// The rejected request must not have consumed a sequence value.
	assert.Equal(t, 1, allocations)
	assert.Len(t, repo.vouchers, 1)
}

func TestService_Issue_DifferentTypesForSameItem(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &sequence.MockAllocator{}, fakeTxManager{})
	ctx := context.Background()

	itemID := id.New()
	bookingID := id.New()

	require.NoError(t, svc.Issue(ctx, New(bookingID, itemID, TypeHotel)))
	require.NoError(t, svc.Issue(ctx, New(bookingID, itemID, TypeTransfer)))

	vouchers, err := svc.ListByBooking(ctx, bookingID)
	require.NoError(t, err)
	assert.Len(t, vouchers, 2)
}

func TestService_Issue_ValidationFailureSkipsAllocation(t *testing.T) {
	repo := newFakeRepo()
	allocations := 0
	allocator := &sequence.MockAllocator{
		AllocateFunc: func(ctx context.Context, cfg sequence.Config, day time.Time) (string, error) {
			allocations++
			return "VC-20260301-0001", nil
		},
	}
	svc := NewService(repo, allocator, fakeTxManager{})

	invalid := New(id.Nil(), id.New(), TypeHotel)
	err := svc.Issue(context.Background(), invalid)
	require.Error(t, err)
	assert.Zero(t, allocations)
}
