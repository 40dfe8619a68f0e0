package favorite

type Product struct {
	ProductID         string   `json:"productId"`
	Name              string   `json:"name"`
	UnitPrice         int64    `json:"unitPrice"`
	OriginalUnitPrice *int64   `json:"originalUnitPrice,omitempty"`
	ImageRef          string   `json:"imageRef"`
	Rating            float64  `json:"rating"`
	ReviewCount       int      `json:"reviewCount"`
	Description       *string  `json:"description,omitempty"`
	VariantColors     []string `json:"variantColors,omitempty"`
	VariantSizes      []string `json:"variantSizes,omitempty"`
}

// State is the favorites set of one user. UserID is empty while nobody is
// signed in, and then Items is always empty.
type State struct {
	UserID string
	Items  []Product
}

// Anonymous reports whether no user is signed in.
func (s State) Anonymous() bool {
	return s.UserID == ""
}

func (s State) Contains(productID string) bool {
	for _, p := range s.Items {
		if p.ProductID == productID {
			return true
		}
	}
	return false
}

func (s State) Clone() State {
	return State{UserID: s.UserID, Items: cloneProducts(s.Items)}
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}

func cloneProduct(p Product) Product {
	if p.OriginalUnitPrice != nil {
		v := *p.OriginalUnitPrice
		p.OriginalUnitPrice = &v
	}
	if p.Description != nil {
		v := *p.Description
		p.Description = &v
	}
	p.VariantColors = append([]string(nil), p.VariantColors...)
	p.VariantSizes = append([]string(nil), p.VariantSizes...)
	return p
}
