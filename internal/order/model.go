package order

import (
	"time"

	"storefront/internal/cart"
)

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWallet       PaymentMethod = "wallet"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipping   Status = "shipping"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// DeliveryWindow is added to the order date to estimate delivery.
const DeliveryWindow = 7 * 24 * time.Hour

type ShippingInfo struct {
	RecipientName string `json:"recipientName" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
}

// Order is immutable once created. Items is a copy of the cart lines taken
// at checkout.
type Order struct {
	ID                string          `json:"id"`
	Items             []cart.LineItem `json:"items"`
	TotalAmount       int64           `json:"totalAmount"`
	OrderDate         time.Time       `json:"orderDate"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	OrderStatus       Status          `json:"orderStatus"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
	ShippingInfo      ShippingInfo    `json:"shippingInfo"`
	ShippingFee       int64           `json:"shippingFee"`
}

// Clone returns a copy of o that shares no slices with it.
func (o Order) Clone() Order {
	o.Items = cart.CloneItems(o.Items)
	return o
}

// Checkout is the completed checkout form passed to CreateOrder.
type Checkout struct {
	Items         []cart.LineItem `validate:"required,min=1,dive"`
	ShippingInfo  ShippingInfo
	PaymentMethod PaymentMethod   `validate:"required,oneof=cod bank_transfer wallet"`
	ShippingFee   int64           `validate:"gte=0"`
}
