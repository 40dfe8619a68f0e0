package cart

// LineItem is one product in the cart. ProductID alone identifies the line:
// adding the same product with another size or colour merges into the
// existing line and keeps the first variant selection.
type LineItem struct {
	ProductID         string `json:"productId" validate:"required"`
	Name              string `json:"name"`
	UnitPrice         int64  `json:"unitPrice" validate:"gte=0"`
	OriginalUnitPrice *int64 `json:"originalUnitPrice,omitempty"`
	ImageRef          string `json:"imageRef"`
	Quantity          int    `json:"quantity" validate:"gte=1"`
	VariantSize       string `json:"variantSize"`
	VariantColor      string `json:"variantColor"`
}

// Subtotal is the unit price times the quantity.
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// State is the cart snapshot. TotalAmount and TotalItemCount are derived
// from Items by every transition and are never set on their own.
type State struct {
	Items          []LineItem `json:"items"`
	TotalAmount    int64      `json:"totalAmount"`
	TotalItemCount int        `json:"totalItemCount"`
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) Find(productID string) (LineItem, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// Clone returns a copy sharing no memory with s.
func (s State) Clone() State {
	return State{
		Items:          CloneItems(s.Items),
		TotalAmount:    s.TotalAmount,
		TotalItemCount: s.TotalItemCount,
	}
}

// CloneItems deep-copies items, including the optional original price.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		out[i] = cloneItem(it)
	}
	return out
}

func cloneItem(it LineItem) LineItem {
	if it.OriginalUnitPrice != nil {
		p := *it.OriginalUnitPrice
		it.OriginalUnitPrice = &p
	}
	return it
}

// Totals returns Σ price×quantity and Σ quantity over items.
func Totals(items []LineItem) (amount int64, count int) {
	for _, it := range items {
		amount += it.Subtotal()
		count += it.Quantity
	}
	return amount, count
}
