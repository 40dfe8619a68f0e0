package catalog

import (
	"sort"
	"strings"

	"storefront/internal/metrics"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Pipeline evaluates queries with a fixed collation language. The zero
// value collates as Vietnamese and records no metrics.
type Pipeline struct {
	Lang    language.Tag
	Metrics *metrics.Metrics
}

// Evaluate is Pipeline{}.Evaluate.
func Evaluate(products []Product, q Query) View {
	return Pipeline{}.Evaluate(products, q)
}

// Evaluate filters products by q, sorts the matches stably and returns the
// first PageSize*PageCount of them. products is not modified.
func (p Pipeline) Evaluate(products []Product, q Query) View {
	timer := metrics.StartTimer()
	defer func() { p.Metrics.CatalogEvaluated(timer.Duration()) }()

	lang := p.Lang
	if lang == language.Und {
		lang = language.Vietnamese
	}

	matched := filter(products, q, cases.Fold())
	sortProducts(matched, q.Sort, collate.New(lang))

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageCount := q.PageCount
	if pageCount < 1 {
		pageCount = 1
	}

	visible := len(matched)
	if pageCount <= len(matched)/pageSize {
		visible = pageSize * pageCount
	}

	return View{
		Items:        matched[:visible:visible],
		TotalMatched: len(matched),
		HasMore:      visible < len(matched),
	}
}

func filter(products []Product, q Query, fold cases.Caser) []Product {
	category := q.Category
	if category == "" {
		category = CategoryAll
	}
	search := fold.String(q.Search)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(fold.String(p.Name), search) {
			continue
		}
		if p.Price < q.PriceMin || p.Price > q.PriceMax {
			continue
		}
		if len(q.Colors) > 0 && !intersects(p.Colors, q.Colors) {
			continue
		}
		if len(q.Sizes) > 0 && !intersects(p.Sizes, q.Sizes) {
			continue
		}
		if len(q.Brands) > 0 && !contains(q.Brands, p.Brand) {
			continue
		}
		if p.Rating < q.MinRating {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProducts sorts in place. Equal keys keep catalog order; an unknown
// key leaves the order untouched.
func sortProducts(ps []Product, key SortKey, c *collate.Collator) {
	var less func(a, b Product) bool
	switch key {
	case SortNewest:
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	case SortNameAsc:
		less = func(a, b Product) bool { return c.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		less = func(a, b Product) bool { return c.CompareString(a.Name, b.Name) > 0 }
	default:
		return
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
