package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/persist"
	"storefront/internal/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Ledger is the append-only order history of one profile. It is stored in
// insertion order under storage.OrdersKey and listed newest first.
type Ledger struct {
	store    storage.Store
	writer   *persist.Debouncer
	log      *zap.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	now      func() time.Time
	newID    func(time.Time) string

	mu       sync.Mutex
	orders   []Order
	hydrated bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now as the source of order dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDFunc replaces NewID.
func WithIDFunc(fn func(time.Time) string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// NewLedger returns an empty ledger. The writer should have no delay: an
// order lost before its write cannot be rebuilt from later mutations.
func NewLedger(store storage.Store, writer *persist.Debouncer, log *zap.Logger, m *metrics.Metrics, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		writer:   writer,
		log:      logger.OrDefault(log).With(zap.String("component", "orders")),
		metrics:  m,
		validate: validator.New(),
		now:      time.Now,
		newID:    NewID,
		orders:   []Order{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Hydrate loads the persisted ledger once. A missing, unreadable or
// malformed record leaves the ledger empty.
func (l *Ledger) Hydrate(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hydrated {
		return
	}
	l.hydrated = true

	raw, ok, err := l.store.Get(ctx, storage.OrdersKey)
	if err != nil {
		l.log.Warn("failed to read persisted orders, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	orders, err := decodeOrders(raw)
	if err != nil {
		l.log.Warn("ignoring persisted orders", zap.Error(err))
		return
	}

	l.orders = orders
	l.metrics.Mutation("orders", "hydrate")
	l.log.Debug("orders hydrated", zap.Int("count", len(orders)))
}

// CreateOrder validates c, appends a new processing order built from a copy
// of c.Items and persists the ledger. It does not touch the cart; clearing
// it afterwards is up to the caller.
func (l *Ledger) CreateOrder(ctx context.Context, c Checkout) (*Order, error) {
	if err := l.Validate(c); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	items := cart.CloneItems(c.Items)
	total, _ := cart.Totals(items)

	o := Order{
		ID:                l.uniqueIDLocked(now),
		Items:             items,
		TotalAmount:       total,
		OrderDate:         now,
		PaymentMethod:     c.PaymentMethod,
		OrderStatus:       StatusProcessing,
		EstimatedDelivery: now.Add(DeliveryWindow),
		ShippingInfo:      c.ShippingInfo,
		ShippingFee:       c.ShippingFee,
	}
	l.orders = append(l.orders, o)
	l.metrics.Mutation("orders", "create")
	l.persistLocked()

	log := l.log
	if sid := logger.SessionIDFrom(ctx); sid != "" {
		log = log.With(zap.String("session_id", sid))
	}
	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Int64("total_amount", o.TotalAmount),
		zap.String("payment_method", string(o.PaymentMethod)),
	)

	created := o.Clone()
	return &created, nil
}

// Validate reports whether c would be accepted by CreateOrder. The error
// wraps ErrInvalidCheckout.
func (l *Ledger) Validate(c Checkout) error {
	err := l.validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		l.log.Warn("checkout validation failed", zap.String("error", verrs.Error()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
}

// ListOrders returns every order, most recent first.
func (l *Ledger) ListOrders() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for i := len(l.orders) - 1; i >= 0; i-- {
		out = append(out, l.orders[i].Clone())
	}
	return out
}

// Get returns a copy of the order with id, or ErrOrderNotFound.
func (l *Ledger) Get(id string) (*Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, o := range l.orders {
		if o.ID == id {
			c := o.Clone()
			return &c, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Len returns the number of recorded orders.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

// Clear empties the ledger. It is an administrative operation and is not
// part of checkout.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders = []Order{}
	l.metrics.Mutation("orders", "clear")
	l.persistLocked()
}

// Flush writes any pending ledger snapshot now.
func (l *Ledger) Flush(ctx context.Context) {
	l.writer.Flush(ctx)
}

// maxIDShifts bounds how far uniqueIDLocked moves the id clock forward
// before it falls back to a numeric suffix.
const maxIDShifts = 1000

func (l *Ledger) uniqueIDLocked(at time.Time) string {
	for i := 0; i < maxIDShifts; i++ {
		id := l.newID(at)
		if !l.hasIDLocked(id) {
			return id
		}
		at = at.Add(time.Millisecond)
	}

	base := l.newID(at)
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if !l.hasIDLocked(id) {
			return id
		}
	}
}

func (l *Ledger) hasIDLocked(id string) bool {
	for _, o := range l.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (l *Ledger) persistLocked() {
	raw, err := json.Marshal(l.orders)
	if err != nil {
		l.log.Error("failed to encode orders", zap.Error(err))
		return
	}
	l.writer.Schedule(storage.OrdersKey, string(raw))
}

func decodeOrders(raw string) ([]Order, error) {
	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOrders, err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}
