package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/persist"
	"storefront/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestLedger(store storage.Store, opts ...Option) *Ledger {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewLedger(store, persist.New(store, 0, zap.NewNop(), nil), zap.NewNop(), nil, opts...)
}

func validCheckout(items ...cart.LineItem) Checkout {
	if len(items) == 0 {
		items = []cart.LineItem{{ProductID: "p1", Name: "Áo", UnitPrice: 100000, Quantity: 2}}
	}
	return Checkout{
		Items: items,
		ShippingInfo: ShippingInfo{
			RecipientName: "Nguyễn Văn A",
			Address:       "1 Lê Lợi, Q1, TP.HCM",
			Phone:         "0900000000",
		},
		PaymentMethod: PaymentCOD,
		ShippingFee:   30000,
	}
}

func TestLedger_CreateOrder(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	l := newTestLedger(store)

	o, err := l.CreateOrder(ctx, validCheckout(
		cart.LineItem{ProductID: "p1", UnitPrice: 100000, Quantity: 2},
		cart.LineItem{ProductID: "p2", UnitPrice: 50000, Quantity: 1},
	))
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, int64(250000), o.TotalAmount, "shipping fee is not part of the total")
	assert.Equal(t, int64(30000), o.ShippingFee)
	assert.Equal(t, StatusProcessing, o.OrderStatus)
	assert.Equal(t, PaymentCOD, o.PaymentMethod)
	assert.True(t, o.OrderDate.Equal(fixedNow))
	assert.True(t, o.EstimatedDelivery.Equal(fixedNow.Add(7*24*time.Hour)))

	raw, ok, err := store.Get(ctx, storage.OrdersKey)
	require.NoError(t, err)
	require.True(t, ok, "orders are written through")

	var persisted []Order
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, o.ID, persisted[0].ID)
}

func TestLedger_CreateOrder_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*Checkout)
	}{
		{"no items", func(c *Checkout) { c.Items = nil }},
		{"zero quantity", func(c *Checkout) { c.Items[0].Quantity = 0 }},
		{"missing product id", func(c *Checkout) { c.Items[0].ProductID = "" }},
		{"missing recipient", func(c *Checkout) { c.ShippingInfo.RecipientName = "" }},
		{"missing address", func(c *Checkout) { c.ShippingInfo.Address = "" }},
		{"missing phone", func(c *Checkout) { c.ShippingInfo.Phone = "" }},
		{"unknown payment method", func(c *Checkout) { c.PaymentMethod = "cash" }},
		{"negative shipping fee", func(c *Checkout) { c.ShippingFee = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			l := newTestLedger(store)

			c := validCheckout()
			tt.mutate(&c)

			o, err := l.CreateOrder(ctx, c)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, ErrInvalidCheckout)
			assert.Equal(t, 0, l.Len())
			store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLedger_SnapshotImmutability(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	c := cart.NewEngine(store, persist.New(store, 0, zap.NewNop(), nil), zap.NewNop(), nil)
	l := newTestLedger(store)

	c.AddItem(cart.LineItem{ProductID: "p1", UnitPrice: 1000, Quantity: 2})
	o, err := l.CreateOrder(ctx, validCheckout(c.State().Items...))
	require.NoError(t, err)

	c.UpdateQuantity("p1", 5)

	got, err := l.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, int64(2000), got.TotalAmount)

	// returned orders are copies too
	got.Items[0].Quantity = 9
	again, _ := l.Get(o.ID)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestLedger_ListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	now := fixedNow
	l := newTestLedger(store, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))

	var ids []string
	for i := 0; i < 3; i++ {
		o, err := l.CreateOrder(ctx, validCheckout())
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	list := l.ListOrders()
	require.Len(t, list, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{list[0].ID, list[1].ID, list[2].ID})

	raw, _, _ := store.Get(ctx, storage.OrdersKey)
	var persisted []Order
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, ids[0], persisted[0].ID, "storage keeps insertion order")
}

func TestLedger_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(storage.NewMemoryStore(), WithIDFunc(func(at time.Time) string {
		return "ORD-" + at.Format("150405.000")
	}))

	a, err := l.CreateOrder(ctx, validCheckout())
	require.NoError(t, err)
	b, err := l.CreateOrder(ctx, validCheckout())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestLedger_UniqueIDs_ConstantIDFunc(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(storage.NewMemoryStore(), WithIDFunc(func(time.Time) string {
		return "ORD-FIXED"
	}))

	var ids []string
	for i := 0; i < 3; i++ {
		o, err := l.CreateOrder(ctx, validCheckout())
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	assert.Equal(t, []string{"ORD-FIXED", "ORD-FIXED-2", "ORD-FIXED-3"}, ids)
}

func TestLedger_CreateOrder_LogsThroughInjectedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := storage.NewMemoryStore()
	l := NewLedger(store, persist.New(store, 0, zap.NewNop(), nil), zap.New(core), nil,
		WithClock(func() time.Time { return fixedNow }))

	ctx := logger.WithSessionID(context.Background(), "sess-1")
	o, err := l.CreateOrder(ctx, validCheckout())
	require.NoError(t, err)

	entries := logs.FilterMessage("order created").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, o.ID, fields["order_id"])
	assert.Equal(t, "sess-1", fields["session_id"])
	assert.Equal(t, "orders", fields["component"])
}

func TestLedger_Get_NotFound(t *testing.T) {
	l := newTestLedger(storage.NewMemoryStore())
	_, err := l.Get("ORD-missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	l := newTestLedger(store)

	_, err := l.CreateOrder(ctx, validCheckout())
	require.NoError(t, err)
	l.Clear()

	assert.Empty(t, l.ListOrders())
	raw, ok, err := store.Get(ctx, storage.OrdersKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestLedger_Hydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("Round trip", func(t *testing.T) {
		store := storage.NewMemoryStore()
		first := newTestLedger(store)
		created, err := first.CreateOrder(ctx, validCheckout())
		require.NoError(t, err)

		second := newTestLedger(store)
		second.Hydrate(ctx)

		got, err := second.Get(created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Items, got.Items)
		assert.True(t, created.OrderDate.Equal(got.OrderDate))
		assert.Equal(t, created.ShippingInfo, got.ShippingInfo)
	})

	t.Run("Runs once", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", mock.Anything, storage.OrdersKey).Return("[]", true, nil).Once()

		l := newTestLedger(store)
		l.Hydrate(ctx)
		l.Hydrate(ctx)

		store.AssertExpectations(t)
	})

	t.Run("Malformed JSON starts empty", func(t *testing.T) {
		store := storage.NewMemoryStore()
		require.NoError(t, store.Set(ctx, storage.OrdersKey, "{oops"))

		l := newTestLedger(store)
		l.Hydrate(ctx)
		assert.Empty(t, l.ListOrders())
	})

	t.Run("Read error starts empty", func(t *testing.T) {
		store := new(MockStore)
		store.On("Get", mock.Anything, storage.OrdersKey).Return("", false, errors.New("disk"))

		l := newTestLedger(store)
		l.Hydrate(ctx)
		assert.Equal(t, 0, l.Len())
	})
}

func TestLedger_WriteFailureIsSwallowed(t *testing.T) {
	store := new(MockStore)
	store.On("Set", mock.Anything, storage.OrdersKey, mock.Anything).Return(errors.New("quota"))

	l := newTestLedger(store)
	o, err := l.CreateOrder(context.Background(), validCheckout())

	require.NoError(t, err)
	assert.NotNil(t, o)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	store := storage.NewMemoryStore()
	l := NewLedger(store, persist.New(store, 0, zap.NewNop(), m), zap.NewNop(), m)

	_, err := l.CreateOrder(context.Background(), validCheckout())
	require.NoError(t, err)
	l.Clear()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsCounter("orders", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsCounter("orders", "clear")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersistWritesCounter("orders", metrics.ResultOK)))
}
