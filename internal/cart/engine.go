package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/persist"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// Engine owns the cart for one session. Mutations are serialized by mu and
// applied through Reduce; each one schedules a debounced write of the whole
// state under storage.CartKey.
type Engine struct {
	store   storage.Store
	writer  *persist.Debouncer
	log     *zap.Logger
	metrics *metrics.Metrics

	mu       sync.Mutex
	state    State
	hydrated bool
}

// NewEngine returns an empty cart engine. Call Hydrate before the first
// mutation to pick up the persisted cart.
func NewEngine(store storage.Store, writer *persist.Debouncer, log *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		store:   store,
		writer:  writer,
		log:     logger.OrDefault(log).With(zap.String("component", "cart")),
		metrics: m,
		state:   newState([]LineItem{}),
	}
}

// Hydrate loads the persisted cart. It runs once per engine; later calls
// are no-ops. A missing, unreadable or malformed record leaves the cart empty.
func (e *Engine) Hydrate(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hydrated {
		return
	}
	e.hydrated = true

	raw, ok, err := e.store.Get(ctx, storage.CartKey)
	if err != nil {
		e.log.Warn("failed to read persisted cart, starting empty", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	stored, err := decodeState(raw)
	if err != nil {
		e.log.Warn("ignoring persisted cart", zap.Error(err))
		return
	}

	e.state = Reduce(e.state, Hydrate(stored.Items))
	e.log.Debug("cart hydrated",
		zap.Int("lines", len(e.state.Items)),
		zap.Int("items", e.state.TotalItemCount),
	)
}

// AddItem appends item, or adds its quantity to the existing line for the
// same product.
func (e *Engine) AddItem(item LineItem) {
	e.dispatch(Add(item))
}

// RemoveItem drops the product's line. Removing an absent product is a no-op.
func (e *Engine) RemoveItem(productID string) {
	e.dispatch(Remove(productID))
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
func (e *Engine) UpdateQuantity(productID string, quantity int) {
	e.dispatch(UpdateQuantity(productID, quantity))
}

// Clear removes every line item.
func (e *Engine) Clear() {
	e.dispatch(Clear())
}

// State returns a copy of the latest committed state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Flush writes any pending cart state now.
func (e *Engine) Flush(ctx context.Context) {
	e.writer.Flush(ctx)
}

func (e *Engine) dispatch(a Action) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = Reduce(e.state, a)
	e.metrics.Mutation("cart", string(a.Type))

	raw, err := json.Marshal(e.state)
	if err != nil {
		// State holds only plain values; this cannot happen.
		e.log.Error("failed to encode cart", zap.Error(err))
		return
	}
	e.writer.Schedule(storage.CartKey, string(raw))
}

func decodeState(raw string) (State, error) {
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return s, nil
}
