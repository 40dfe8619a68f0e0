package catalog

// Categories returns the distinct categories in first-seen order.
func Categories(products []Product) []string {
	return distinct(products, func(p Product) []string { return []string{p.Category} })
}

// Colors returns the distinct colors in first-seen order.
func Colors(products []Product) []string {
	return distinct(products, func(p Product) []string { return p.Colors })
}

func Sizes(products []Product) []string {
	return distinct(products, func(p Product) []string { return p.Sizes })
}

func Brands(products []Product) []string {
	return distinct(products, func(p Product) []string { return []string{p.Brand} })
}

// PriceBounds returns the lowest and highest price. ok is false for an
// empty catalog.
func PriceBounds(products []Product) (lo, hi int64, ok bool) {
	for i, p := range products {
		if i == 0 || p.Price < lo {
			lo = p.Price
		}
		if i == 0 || p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi, len(products) > 0
}

// Find returns the product with the given id.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func distinct(products []Product, values func(Product) []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		for _, v := range values(p) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
