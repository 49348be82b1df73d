package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/sequence"
	"tourops/internal/core/types"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	bookings          map[id.ID]*Booking
	lastUpdateVersion int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[id.ID]*Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *Booking) error {
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

// Update mirrors the real repo's optimistic lock: the caller's version must
// equal the stored one, and the store owns the increment.
func (r *fakeBookingRepo) Update(ctx context.Context, b *Booking) error {
	stored, ok := r.bookings[b.ID]
	if !ok {
		return apperror.NewNotFound("booking", b.ID)
	}
	r.lastUpdateVersion = b.Version
	if b.Version != stored.Version {
		return apperror.NewConcurrency("booking", b.ID)
	}
	clone := *b
	clone.Version = stored.Version + 1
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, bookingID id.ID) (*Booking, error) {
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, apperror.NewNotFound("booking", bookingID)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) GetForUpdate(ctx context.Context, bookingID id.ID) (*Booking, error) {
	return r.GetByID(ctx, bookingID)
}

func (r *fakeBookingRepo) UpdateTotals(ctx context.Context, bookingID id.ID, totals Totals, payment PaymentStatus) error {
	b, ok := r.bookings[bookingID]
	if !ok {
		return apperror.NewNotFound("booking", bookingID)
	}
	b.TotalCostPrice = totals.TotalCostPrice
	b.TotalSellPrice = totals.TotalSellPrice
	b.GrossProfit = totals.GrossProfit
	b.PaymentStatus = payment
	return nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{}
	for _, b := range r.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result.Items = append(result.Items, b)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type fakeItemRepo struct {
	items             map[id.ID]*ServiceItem
	lastUpdateVersion int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[id.ID]*ServiceItem)}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *ServiceItem) error {
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *ServiceItem) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return apperror.NewNotFound("service item", item.ID)
	}
	r.lastUpdateVersion = item.Version
	if item.Version != stored.Version {
		return apperror.NewConcurrency("booking_service_items", item.ID)
	}
	clone := *item
	clone.Version = stored.Version + 1
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := r.items[itemID]; !ok {
		return apperror.NewNotFound("service item", itemID)
	}
	delete(r.items, itemID)
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, itemID id.ID) (*ServiceItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("service item", itemID)
	}
	clone := *item
	return &clone, nil
}

func (r *fakeItemRepo) ListByBooking(ctx context.Context, bookingID id.ID) ([]*ServiceItem, error) {
	var out []*ServiceItem
	for _, item := range r.items {
		if item.BookingID == bookingID {
			out = append(out, item)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeBookingRepo, *fakeItemRepo) {
	repo := newFakeBookingRepo()
	items := newFakeItemRepo()
	svc := NewService(repo, items, &sequence.MockAllocator{}, fakeTxManager{})
	return svc, repo, items
}

func TestService_Create_AllocatesCode(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 4, "USD")
	require.NoError(t, svc.Create(ctx, b))

	assert.Regexp(t, `^BK-\d{8}-\d{4}$`, b.Code)
	assert.Contains(t, repo.bookings, b.ID)
	assert.Equal(t, StatusInquiry, b.Status)
}

func TestService_Create_KeepsExplicitCode(t *testing.T) {
	svc, _, _ := newTestService()

	b := NewBooking(id.New(), 2, "USD")
	b.Code = "BK-20260101-0042"
	require.NoError(t, svc.Create(context.Background(), b))
	assert.Equal(t, "BK-20260101-0042", b.Code)
}

func TestService_AddItem_RecomputesTotals(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("100.00")
	item.SellPrice = types.MustMoney("150.00")

	totals, err := svc.AddItem(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.TotalCostPrice.StringFixed(2))
	assert.Equal(t, "150.00", totals.TotalSellPrice.StringFixed(2))
	assert.Equal(t, "50.00", totals.GrossProfit.StringFixed(2))

	// The stored booking carries the same derived state.
	stored := repo.bookings[b.ID]
	assert.Equal(t, "150.00", stored.TotalSellPrice.StringFixed(2))
}

func TestService_AddItem_UnknownBooking(t *testing.T) {
	svc, _, items := newTestService()

	item := NewServiceItem(id.New(), ItemTransfer)
	item.CostPrice = types.MustMoney("10")

	_, err := svc.AddItem(context.Background(), item)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, items.items)
}

func TestService_UpdateItem_RecomputesTotals(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("100.00")
	item.SellPrice = types.MustMoney("150.00")
	_, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	newSell := types.MustMoney("180.00")
	totals, err := svc.UpdateItem(ctx, item.ID, ItemPatch{SellPrice: &newSell})
	require.NoError(t, err)
	assert.Equal(t, "180.00", totals.TotalSellPrice.StringFixed(2))
	assert.Equal(t, "80.00", totals.GrossProfit.StringFixed(2))
}

func TestService_DeleteItem_RecomputesTotals(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	first := NewServiceItem(b.ID, ItemTransfer)
	first.CostPrice = types.MustMoney("100.00")
	first.SellPrice = types.MustMoney("150.00")
	_, err := svc.AddItem(ctx, first)
	require.NoError(t, err)

	second := NewServiceItem(b.ID, ItemTransfer)
	second.CostPrice = types.MustMoney("40.00")
	second.SellPrice = types.MustMoney("60.00")
	_, err = svc.AddItem(ctx, second)
	require.NoError(t, err)

	totals, err := svc.DeleteItem(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", totals.TotalCostPrice.StringFixed(2))
	assert.Equal(t, "60.00", totals.TotalSellPrice.StringFixed(2))

	stored := repo.bookings[b.ID]
	assert.Equal(t, "20.00", stored.GrossProfit.StringFixed(2))
}

func TestService_Recompute_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("100.00")
	item.SellPrice = types.MustMoney("150.00")
	_, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	first, err := svc.Recompute(ctx, b.ID)
	require.NoError(t, err)
	second, err := svc.Recompute(ctx, b.ID)
	require.NoError(t, err)

	assert.True(t, first.TotalSellPrice.Equal(second.TotalSellPrice))
	assert.True(t, first.TotalCostPrice.Equal(second.TotalCostPrice))
}

func TestService_RegisterPayment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("100.00")
	item.SellPrice = types.MustMoney("200.00")
	_, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	updated, err := svc.RegisterPayment(ctx, b.ID, types.MustMoney("50.00"))
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, updated.PaymentStatus)

	updated, err = svc.RegisterPayment(ctx, b.ID, types.MustMoney("150.00"))
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, updated.PaymentStatus)
	assert.Equal(t, "200.00", updated.AmountReceived.StringFixed(2))
}

func TestService_RegisterPayment_RejectsNonPositive(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RegisterPayment(context.Background(), id.New(), types.Zero())
	assert.Error(t, err)

	_, err = svc.RegisterPayment(context.Background(), id.New(), types.MustMoney("-10"))
	assert.Error(t, err)
}

func TestService_ChangeStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	updated, err := svc.ChangeStatus(ctx, b.ID, StatusQuoted)
	require.NoError(t, err)
	assert.Equal(t, StatusQuoted, updated.Status)

	_, err = svc.ChangeStatus(ctx, b.ID, StatusCompleted)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidStatusTransition, appErr.Code)
}

func TestService_ChangeStatus_LocksOnLoadedVersion(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))
	loaded := repo.bookings[b.ID].Version

	updated, err := svc.ChangeStatus(ctx, b.ID, StatusQuoted)
	require.NoError(t, err)

	// The repo must see the version the row was loaded at; it owns the
	// increment itself.
	assert.Equal(t, loaded, repo.lastUpdateVersion)
	assert.Equal(t, loaded+1, repo.bookings[b.ID].Version)
	assert.Equal(t, loaded+1, updated.Version)
}

func TestService_SequentialMutationsAdvanceVersion(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))
	start := repo.bookings[b.ID].Version

	_, err := svc.ChangeStatus(ctx, b.ID, StatusQuoted)
	require.NoError(t, err)

	notes := "airport pickup confirmed"
	_, err = svc.Update(ctx, b.ID, Patch{Notes: &notes})
	require.NoError(t, err)

	_, err = svc.RegisterPayment(ctx, b.ID, types.MustMoney("10.00"))
	require.NoError(t, err)

	assert.Equal(t, start+3, repo.bookings[b.ID].Version)
}

func TestService_UpdateItem_LocksOnLoadedVersion(t *testing.T) {
	svc, _, items := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("100.00")
	item.SellPrice = types.MustMoney("150.00")
	_, err := svc.AddItem(ctx, item)
	require.NoError(t, err)
	loaded := items.items[item.ID].Version

	newSell := types.MustMoney("180.00")
	_, err = svc.UpdateItem(ctx, item.ID, ItemPatch{SellPrice: &newSell})
	require.NoError(t, err)

	assert.Equal(t, loaded, items.lastUpdateVersion)
	assert.Equal(t, loaded+1, items.items[item.ID].Version)
}

func TestService_Update_StaleVersionIsConcurrencyError(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	// Another writer bumps the stored row between this writer's load and
	// write.
	stale := *repo.bookings[b.ID]
	repo.bookings[b.ID].Version++

	err := repo.Update(ctx, &stale)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrency(err))
}

func TestService_Update_Patch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	pax := 6
	notes := "honeymoon upgrade"
	updated, err := svc.Update(ctx, b.ID, Patch{PaxCount: &pax, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.PaxCount)
	assert.Equal(t, "honeymoon upgrade", updated.Notes)
	assert.Equal(t, "USD", updated.Currency)
}

func TestService_GetByID_LoadsItems(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	b := NewBooking(id.New(), 2, "USD")
	require.NoError(t, svc.Create(ctx, b))

	item := NewServiceItem(b.ID, ItemTransfer)
	item.CostPrice = types.MustMoney("10")
	_, err := svc.AddItem(ctx, item)
	require.NoError(t, err)

	loaded, err := svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, item.ID, loaded.Items[0].ID)
}
