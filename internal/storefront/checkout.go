package storefront

import (
	"context"
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest is what the shopper fills in on the checkout form.
type CheckoutRequest struct {
	ShippingInfo  order.ShippingInfo
	PaymentMethod order.PaymentMethod
	ShippingFee   int64
}

type CheckoutResult struct {
	Order   *order.Order
	Payment *payment.Result
}

// Checkout places an order for the current cart. It validates the form,
// charges the payment gateway, creates the order from a snapshot of the
// cart and then clears the cart. The last two steps are separate calls: if
// the process dies between them the order exists and the cart still holds
// the same lines.
func (a *App) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	snapshot := a.Cart.State()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	c := order.Checkout{
		Items:         snapshot.Items,
		ShippingInfo:  req.ShippingInfo,
		PaymentMethod: req.PaymentMethod,
		ShippingFee:   req.ShippingFee,
	}
	if err := a.Orders.Validate(c); err != nil {
		return nil, err
	}

	log := a.log
	if sid := logger.SessionIDFrom(ctx); sid != "" {
		log = log.With(zap.String("session_id", sid))
	}

	charge := payment.Request{
		Reference: uuid.NewString(),
		Amount:    snapshot.TotalAmount + req.ShippingFee,
		Method:    string(req.PaymentMethod),
		Recipient: req.ShippingInfo.RecipientName,
	}
	res, err := a.payments.Charge(ctx, charge)
	if err != nil {
		log.Error("payment gateway error", zap.String("reference", charge.Reference), zap.Error(err))
		return nil, fmt.Errorf("charge %s: %w", charge.Method, err)
	}
	if res.Status == payment.StatusFailed {
		log.Warn("payment failed", zap.String("reference", charge.Reference))
		return nil, ErrPaymentFailed
	}

	o, err := a.Orders.CreateOrder(ctx, c)
	if err != nil {
		return nil, err
	}
	a.Cart.Clear()

	log.Info("checkout complete",
		zap.String("order_id", o.ID),
		zap.String("payment_status", string(res.Status)),
		zap.String("reference", charge.Reference),
	)
	return &CheckoutResult{Order: o, Payment: res}, nil
}
