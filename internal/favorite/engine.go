package favorite

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/persist"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

// Engine owns the favorites of whoever is signed in. Each user's set lives
// under storage.FavoritesKey(userID); signing out only drops the in-memory
// copy.
type Engine struct {
	store   storage.Store
	writer  *persist.Debouncer
	log     *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	state State
}

// NewEngine returns an anonymous favorites engine. Bind it to a session
// to follow sign-in and sign-out.
func NewEngine(store storage.Store, writer *persist.Debouncer, log *zap.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		store:   store,
		writer:  writer,
		log:     logger.OrDefault(log).With(zap.String("component", "favorites")),
		metrics: m,
		state:   State{Items: []Product{}},
	}
}

// Bind applies src's current user and follows its changes until cancel is
// called.
func (e *Engine) Bind(ctx context.Context, src identity.Source) (cancel func()) {
	ctx = context.WithoutCancel(ctx)
	cancel = src.OnChange(func(u *identity.User) {
		e.OnIdentityChange(ctx, u)
	})
	e.OnIdentityChange(ctx, src.CurrentUser())
	return cancel
}

// OnIdentityChange reconciles the engine with a new identity. A switch
// between two users happens under one lock: readers see the old user's set
// or the new one's, never a mix or an empty gap.
func (e *Engine) OnIdentityChange(ctx context.Context, u *identity.User) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := ""
	if u != nil {
		next = u.ID
	}
	if next == e.state.UserID {
		return
	}

	// any pending write belongs to the previous user
	e.writer.Flush(ctx)

	if next == "" {
		e.state = Reduce(e.state, SignedOut())
		e.metrics.Mutation("favorites", string(ActionSignedOut))
		return
	}

	e.state = Reduce(e.state, SignedIn(next, e.load(ctx, next)))
	e.metrics.Mutation("favorites", string(ActionSignedIn))
	e.log.Debug("favorites loaded",
		zap.String("user_id", next),
		zap.Int("count", len(e.state.Items)),
	)
}

// Add inserts p unless it is already a favorite. No-op while signed out.
func (e *Engine) Add(p Product) {
	e.dispatch(Add(p))
}

// Remove drops productID from the current user's favorites.
func (e *Engine) Remove(productID string) {
	e.dispatch(Remove(productID))
}

// Toggle removes productID when it is a favorite and otherwise adds
// product. Toggling on with a nil product does nothing; use ToggleProduct
// when the product is at hand.
func (e *Engine) Toggle(productID string, product *Product) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Contains(productID) {
		e.applyLocked(Remove(productID))
		return
	}
	if product == nil {
		return
	}
	p := *product
	p.ProductID = productID
	e.applyLocked(Add(p))
}

// ToggleProduct is Toggle with the payload always present.
func (e *Engine) ToggleProduct(p Product) {
	e.Toggle(p.ProductID, &p)
}

// Clear empties the current user's favorites.
func (e *Engine) Clear() {
	e.dispatch(Clear())
}

// IsFavorite reports whether productID is in the current user's list.
func (e *Engine) IsFavorite(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Contains(productID)
}

// List returns the favorites in the order they were added.
func (e *Engine) List() []Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneProducts(e.state.Items)
}

// UserID returns the owner of the current set, or "" when signed out.
func (e *Engine) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.UserID
}

func (e *Engine) Flush(ctx context.Context) {
	e.writer.Flush(ctx)
}

func (e *Engine) dispatch(a Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(a)
}

func (e *Engine) applyLocked(a Action) {
	if e.state.Anonymous() {
		e.log.Debug("ignoring favorites change while signed out", zap.String("action", string(a.Type)))
		return
	}

	e.state = Reduce(e.state, a)
	e.metrics.Mutation("favorites", string(a.Type))

	raw, err := json.Marshal(e.state.Items)
	if err != nil {
		e.log.Error("failed to encode favorites", zap.Error(err))
		return
	}
	e.writer.Schedule(storage.FavoritesKey(e.state.UserID), string(raw))
}

// load must be called with e.mu held.
func (e *Engine) load(ctx context.Context, userID string) []Product {
	key := storage.FavoritesKey(userID)
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.log.Warn("failed to read favorites, starting empty", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	items, err := decodeFavorites(raw)
	if err != nil {
		e.log.Warn("ignoring persisted favorites", zap.String("key", key), zap.Error(err))
		return nil
	}
	return items
}

func decodeFavorites(raw string) ([]Product, error) {
	var items []Product
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFavorites, err)
	}
	return items, nil
}
