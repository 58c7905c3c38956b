package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newPendingOrder(userID string, expiresAt time.Time) *model.Order {
	id := uuid.NewString()
	return &model.Order{
		ID:          id,
		MerchantOID: "OID" + id[:8],
		UserID:      userID,
		TotalAmount: decimal.RequireFromString("118"),
		Currency:    "TL",
		State:       model.StatePending,
		Version:     1,
		ExpiresAt:   expiresAt,
		Items: []model.OrderItem{{
			ID:             uuid.NewString(),
			ProductID:      "p1",
			Quantity:       1,
			UnitPrice:      decimal.RequireFromString("100"),
			TaxRate:        decimal.RequireFromString("0.18"),
			DeliveryParams: datatypes.JSON(`{"handle":"@acme"}`),
			TargetCount:    1000,
		}},
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	order := newPendingOrder("u1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, nil, order))

	byID, err := repo.FindByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.MerchantOID, byID.MerchantOID)
	require.Len(t, byID.Items, 1)
	assert.Equal(t, 1000, byID.Items[0].TargetCount)
	assert.JSONEq(t, `{"handle":"@acme"}`, string(byID.Items[0].DeliveryParams))
	assert.True(t, decimal.RequireFromString("118").Equal(byID.TotalAmount))

	byOID, err := repo.FindByMerchantOID(ctx, nil, order.MerchantOID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byOID.ID)

	_, err = repo.FindByMerchantOID(ctx, nil, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_SaveStateDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	order := newPendingOrder("u1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, nil, order))

	first, err := repo.FindByID(ctx, nil, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, nil, order.ID)
	require.NoError(t, err)

	first.State = model.StatePaid
	require.NoError(t, repo.SaveState(ctx, nil, first))
	assert.Equal(t, 2, first.Version)

	second.State = model.StateExpired
	err = repo.SaveState(ctx, nil, second)
	assert.True(t, errors.Is(err, ErrConcurrentUpdate))

	stored, err := repo.FindByID(ctx, nil, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePaid, stored.State)
	assert.Equal(t, 2, stored.Version)
}

func TestOrderRepository_FindExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))
	now := time.Now().UTC()

	due := newPendingOrder("u1", now.Add(-time.Minute))
	notDue := newPendingOrder("u1", now.Add(time.Minute))
	paid := newPendingOrder("u1", now.Add(-time.Minute))
	paid.State = model.StatePaid
	for _, o := range []*model.Order{due, notDue, paid} {
		require.NoError(t, repo.Create(ctx, nil, o))
	}

	expired, err := repo.FindExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, due.ID, expired[0].ID)
}

func TestOrderRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(testutil.NewDB(t))

	mine := newPendingOrder("u1", time.Now().UTC().Add(time.Hour))
	theirs := newPendingOrder("u2", time.Now().UTC().Add(time.Hour))
	require.NoError(t, repo.Create(ctx, nil, mine))
	require.NoError(t, repo.Create(ctx, nil, theirs))

	orders, err := repo.List(ctx, OrderFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	all, err := repo.List(ctx, OrderFilter{State: model.StatePending})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.UpdateItemProgress(ctx, nil, mine.ID, mine.Items[0].ID, 250))
	assert.ErrorIs(t, repo.UpdateItemProgress(ctx, nil, mine.ID, "nope", 1), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, nil, mine.ID))
	_, err = repo.FindByID(ctx, nil, mine.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, nil, mine.ID), gorm.ErrRecordNotFound)
}

func TestCartRepository_UpsertAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(testutil.NewDB(t))

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "u1", ProductID: "p1", Quantity: 2, DeliveryParams: datatypes.JSON(`{"link":"x"}`)}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "u1", ProductID: "p2", Quantity: 1}))
	require.NoError(t, repo.Upsert(ctx, &model.CartItem{UserID: "u2", ProductID: "p1", Quantity: 1}))

	items, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int32(3), items[0].Quantity)
	assert.JSONEq(t, `{"link":"x"}`, string(items[0].DeliveryParams))

	require.NoError(t, repo.Remove(ctx, "u1", "p2"))

	n, err := repo.ClearByUser(ctx, nil, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	others, err := repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOutboxRepository(testutil.NewDB(t))

	for _, typ := range []string{"order.created", "order.paid"} {
		require.NoError(t, repo.Add(ctx, nil, &model.OutboxEvent{
			ID:          uuid.NewString(),
			EventType:   typ,
			AggregateID: "o1",
			Payload:     datatypes.JSON(`{}`),
			CreatedAt:   time.Now().UTC(),
		}))
	}

	pending, err := repo.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	require.NoError(t, repo.MarkPublished(ctx, pending[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, pending[1].ID, errors.New("broker down")))

	pending, err = repo.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker down", pending[0].LastError)

	all, err := repo.ListByAggregate(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductRepository_SeedAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testutil.NewDB(t))

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	products, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	found, err := repo.FindMany(ctx, []string{"ig_likes_500", "unknown"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Instagram 500 Likes", found[0].Name)
}

func TestMerchantOIDColumnMatchesMigrations(t *testing.T) {
	db := testutil.NewDB(t)

	for _, m := range []interface{}{&model.Order{}, &model.PaymentCallback{}} {
		assert.True(t, db.Migrator().HasColumn(m, "merchant_oid"))

		columns, err := db.Migrator().ColumnTypes(m)
		require.NoError(t, err)
		for _, c := range columns {
			assert.NotEqual(t, "merchant_o_id", c.Name())
		}
	}
}

func TestCallbackRepository_ListByMerchantOID(t *testing.T) {
	ctx := context.Background()
	repo := NewCallbackRepository(testutil.NewDB(t))

	now := time.Now().UTC()
	for i, oid := range []string{"OID1", "OID1", "OID2"} {
		require.NoError(t, repo.Record(ctx, &model.PaymentCallback{
			ID:          uuid.NewString(),
			MerchantOID: oid,
			Status:      "success",
			Verified:    true,
			Outcome:     "applied",
			Payload:     datatypes.JSON(`{}`),
			ReceivedAt:  now.Add(time.Duration(i) * time.Second),
		}))
	}

	callbacks, err := repo.ListByMerchantOID(ctx, "OID1")
	require.NoError(t, err)
	assert.Len(t, callbacks, 2)
}
