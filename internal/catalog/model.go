package catalog

import "time"

// Product is a read-only catalog record.
type Product struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Price         int64     `json:"price" yaml:"price"`
	OriginalPrice *int64    `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	Category      string    `json:"category" yaml:"category"`
	Colors        []string  `json:"colors" yaml:"colors"`
	Sizes         []string  `json:"sizes" yaml:"sizes"`
	Rating        float64   `json:"rating" yaml:"rating"`
	ReviewCount   int       `json:"reviewCount" yaml:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	Discount      *int      `json:"discount,omitempty" yaml:"discount,omitempty"`
	Brand         string    `json:"brand,omitempty" yaml:"brand,omitempty"`
	Description   string    `json:"description,omitempty" yaml:"description,omitempty"`
	ImageRef      string    `json:"image" yaml:"image"`
	InStock       bool      `json:"inStock" yaml:"inStock"`
}

// SortKey names one of the catalog orderings.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

const (
	CategoryAll     = "all"
	DefaultPageSize = 12

	DefaultPriceMin int64 = 0
	DefaultPriceMax int64 = 1000000
)

// Query selects, orders and pages a catalog. PriceMin and PriceMax are an
// inclusive range taken literally; NewQuery fills in the defaults.
type Query struct {
	Search    string
	Category  string
	PriceMin  int64
	PriceMax  int64
	Colors    []string
	Sizes     []string
	Brands    []string
	MinRating float64
	Sort      SortKey
	PageSize  int
	PageCount int
}

// NewQuery returns the query of an untouched product listing.
func NewQuery() Query {
	return Query{
		Category:  CategoryAll,
		PriceMin:  DefaultPriceMin,
		PriceMax:  DefaultPriceMax,
		Sort:      SortNewest,
		PageSize:  DefaultPageSize,
		PageCount: 1,
	}
}

// View is the visible result of a Query. Items is a prefix of all matches.
type View struct {
	Items        []Product
	TotalMatched int
	HasMore      bool
}
