// Package storefront wires the cart, favorites, order ledger, session and
// catalog of one storefront profile together.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/favorite"
	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/payment"
	"storefront/internal/persist"
	"storefront/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrPaymentFailed   = errors.New("payment failed")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

const shutdownTimeout = 5 * time.Second

// demoSeed fixes the generated catalog so product ids stay stable between
// runs.
const demoSeed = 2024

// Deps are the collaborators of an App. Nil fields get defaults built
// from Config.
type Deps struct {
	Config *config.Config

	// Store defaults to storage.Open(Config). A store passed in is not
	// closed by App.Close.
	Store storage.Store

	// Payments defaults to payment.Default().
	Payments payment.Gateway

	// Products defaults to Config.CatalogPath, or a generated demo catalog.
	Products []catalog.Product

	Logger  *zap.Logger
	Metrics *metrics.Metrics

	OrderOptions []order.Option
}

type App struct {
	Cart      *cart.Engine
	Favorites *favorite.Engine
	Orders    *order.Ledger
	Session   *identity.Session
	Products  []catalog.Product
	Pipeline  catalog.Pipeline

	cfg       *config.Config
	store     storage.Store
	ownsStore bool
	payments  payment.Gateway
	writers   []*persist.Debouncer
	unbind    func()
	log       *zap.Logger
}

// New opens the store, hydrates the cart and the order ledger, restores the
// remembered session and binds favorites to it.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, errors.New("storefront: nil config")
	}
	log := logger.OrDefault(deps.Logger)

	a := &App{
		cfg:      cfg,
		store:    deps.Store,
		payments: deps.Payments,
		Products: deps.Products,
		Pipeline: catalog.Pipeline{Metrics: deps.Metrics},
		log:      log,
	}

	if a.store == nil {
		store, err := storage.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = store
		a.ownsStore = true
	}
	if a.payments == nil {
		a.payments = payment.Default()
	}
	if a.Products == nil {
		products, err := loadProducts(cfg)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.Products = products
	}

	cartWriter := persist.New(a.store, cfg.PersistDelay, log, deps.Metrics)
	favWriter := persist.New(a.store, cfg.PersistDelay, log, deps.Metrics)
	orderWriter := persist.New(a.store, 0, log, deps.Metrics)
	a.writers = []*persist.Debouncer{cartWriter, favWriter, orderWriter}

	a.Cart = cart.NewEngine(a.store, cartWriter, log, deps.Metrics)
	a.Favorites = favorite.NewEngine(a.store, favWriter, log, deps.Metrics)
	a.Orders = order.NewLedger(a.store, orderWriter, log, deps.Metrics, deps.OrderOptions...)
	a.Session = identity.NewSession(a.store, cfg.JWTSecret, log)

	a.Cart.Hydrate(ctx)
	a.Orders.Hydrate(ctx)
	a.Session.Restore(ctx)
	a.unbind = a.Favorites.Bind(ctx, a.Session)

	log.Info("storefront ready",
		zap.String("store_driver", cfg.StoreDriver),
		zap.Int("products", len(a.Products)),
		zap.Int("cart_lines", len(a.Cart.State().Items)),
		zap.Int("orders", a.Orders.Len()),
	)
	return a, nil
}

func loadProducts(cfg *config.Config) ([]catalog.Product, error) {
	if cfg.CatalogPath != "" {
		products, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		return products, nil
	}
	return catalog.Generate(cfg.CatalogSeedSize, demoSeed), nil
}

// Browser starts a product listing over the app's catalog.
func (a *App) Browser() *catalog.Browser {
	b := catalog.NewBrowser(a.Products, a.Pipeline)
	if a.cfg.PageSize > 0 {
		b.SetPageSize(a.cfg.PageSize)
	}
	return b
}

// Product looks id up in the loaded catalog.
func (a *App) Product(id string) (catalog.Product, error) {
	p, ok := catalog.Find(a.Products, id)
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	return p, nil
}

// AddToCart adds quantity of a catalog product. An empty size or color
// selects the product's first one.
func (a *App) AddToCart(productID string, quantity int, size, color string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	p, err := a.Product(productID)
	if err != nil {
		return err
	}
	a.Cart.AddItem(LineItem(p, quantity, size, color))
	return nil
}

// ToggleFavorite flips a catalog product in the signed-in user's favorites
// and reports whether it is now a favorite.
func (a *App) ToggleFavorite(productID string) (bool, error) {
	p, err := a.Product(productID)
	if err != nil {
		return false, err
	}
	a.Favorites.ToggleProduct(FavoriteProduct(p))
	return a.Favorites.IsFavorite(productID), nil
}

// Flush writes every pending change now.
func (a *App) Flush(ctx context.Context) {
	for _, w := range a.writers {
		w.Flush(ctx)
	}
}

// Close flushes pending writes, stops following the session and closes the
// store when App opened it.
func (a *App) Close(ctx context.Context) error {
	if a.unbind != nil {
		a.unbind()
	}
	for _, w := range a.writers {
		w.Close(ctx)
	}
	return a.closeStore()
}

// Shutdown is Close with a fresh deadline, for use after ctx was cancelled.
func (a *App) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return a.Close(ctx)
}

func (a *App) closeStore() error {
	if !a.ownsStore {
		return nil
	}
	return a.store.Close()
}

// LineItem converts a catalog product into a cart line.
func LineItem(p catalog.Product, quantity int, size, color string) cart.LineItem {
	if size == "" && len(p.Sizes) > 0 {
		size = p.Sizes[0]
	}
	if color == "" && len(p.Colors) > 0 {
		color = p.Colors[0]
	}
	return cart.LineItem{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPrice:         p.Price,
		OriginalUnitPrice: copyInt64(p.OriginalPrice),
		ImageRef:          p.ImageRef,
		Quantity:          quantity,
		VariantSize:       size,
		VariantColor:      color,
	}
}

// FavoriteProduct converts a catalog product into a favorites entry.
func FavoriteProduct(p catalog.Product) favorite.Product {
	fp := favorite.Product{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPrice:         p.Price,
		OriginalUnitPrice: copyInt64(p.OriginalPrice),
		ImageRef:          p.ImageRef,
		Rating:            p.Rating,
		ReviewCount:       p.ReviewCount,
		VariantColors:     append([]string(nil), p.Colors...),
		VariantSizes:      append([]string(nil), p.Sizes...),
	}
	if p.Description != "" {
		d := p.Description
		fp.Description = &d
	}
	return fp
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
