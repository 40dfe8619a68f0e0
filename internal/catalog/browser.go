package catalog

// Browser holds the query state of one product listing. Every filter or
// sort change resets the listing to its first page; only LoadMore grows it.
// A Browser is not safe for concurrent use.
type Browser struct {
	products []Product
	pipeline Pipeline
	query    Query
}

// NewBrowser returns a browser over products starting from NewQuery.
func NewBrowser(products []Product, pipeline Pipeline) *Browser {
	return &Browser{products: products, pipeline: pipeline, query: NewQuery()}
}

// Query returns a copy of the current query.
func (b *Browser) Query() Query {
	q := b.query
	q.Colors = append([]string(nil), q.Colors...)
	q.Sizes = append([]string(nil), q.Sizes...)
	q.Brands = append([]string(nil), q.Brands...)
	return q
}

// View evaluates the current query without changing it.
func (b *Browser) View() View {
	return b.pipeline.Evaluate(b.products, b.query)
}

// LoadMore reveals the next page when there is one.
func (b *Browser) LoadMore() View {
	if v := b.View(); !v.HasMore {
		return v
	}
	b.query.PageCount++
	return b.View()
}

func (b *Browser) SetSearch(s string) View {
	return b.change(func(q *Query) { q.Search = s })
}

func (b *Browser) SetCategory(category string) View {
	return b.change(func(q *Query) { q.Category = category })
}

// SetPriceRange replaces the inclusive price range.
func (b *Browser) SetPriceRange(lo, hi int64) View {
	return b.change(func(q *Query) { q.PriceMin, q.PriceMax = lo, hi })
}

func (b *Browser) SetColors(colors ...string) View {
	return b.change(func(q *Query) { q.Colors = append([]string(nil), colors...) })
}

// ToggleColor selects color, or deselects it when already selected.
func (b *Browser) ToggleColor(color string) View {
	return b.change(func(q *Query) {
		next := make([]string, 0, len(q.Colors)+1)
		found := false
		for _, c := range q.Colors {
			if c == color {
				found = true
				continue
			}
			next = append(next, c)
		}
		if !found {
			next = append(next, color)
		}
		q.Colors = next
	})
}

func (b *Browser) SetSizes(sizes ...string) View {
	return b.change(func(q *Query) { q.Sizes = append([]string(nil), sizes...) })
}

func (b *Browser) SetBrands(brands ...string) View {
	return b.change(func(q *Query) { q.Brands = append([]string(nil), brands...) })
}

func (b *Browser) SetMinRating(r float64) View {
	return b.change(func(q *Query) { q.MinRating = r })
}

func (b *Browser) SetSort(key SortKey) View {
	return b.change(func(q *Query) { q.Sort = key })
}

// SetPageSize changes the page size and goes back to the first page.
func (b *Browser) SetPageSize(n int) View {
	return b.change(func(q *Query) { q.PageSize = n })
}

// Reset restores the default query.
func (b *Browser) Reset() View {
	b.query = NewQuery()
	return b.View()
}

func (b *Browser) change(fn func(*Query)) View {
	fn(&b.query)
	b.query.PageCount = 1
	return b.View()
}
