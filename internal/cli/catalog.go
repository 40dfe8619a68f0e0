package cli

import (
	"context"
	"io"

	"storefront/internal/catalog"
	"storefront/internal/storefront"

	"github.com/spf13/cobra"
)

type catalogOptions struct {
	search    string
	category  string
	minPrice  int64
	maxPrice  int64
	colors    []string
	sizes     []string
	brands    []string
	minRating float64
	sort      string
	pageSize  int
	pages     int
}

// NewCatalogCommand creates the catalog listing command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &catalogOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List products matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, app *storefront.App, out *OutputFormatter) error {
				view := app.Pipeline.Evaluate(app.Products, opts.query(app))
				return out.Emit(view, func(w io.Writer) { writeView(w, view) })
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive name search")
	f.StringVar(&opts.category, "category", catalog.CategoryAll, "category, or all")
	f.Int64Var(&opts.minPrice, "min-price", catalog.DefaultPriceMin, "lowest price (inclusive)")
	f.Int64Var(&opts.maxPrice, "max-price", catalog.DefaultPriceMax, "highest price (inclusive)")
	f.StringSliceVar(&opts.colors, "color", nil, "colors, any of which must match")
	f.StringSliceVar(&opts.sizes, "size", nil, "sizes, any of which must match")
	f.StringSliceVar(&opts.brands, "brand", nil, "brands, any of which must match")
	f.Float64Var(&opts.minRating, "min-rating", 0, "lowest rating")
	f.StringVar(&opts.sort, "sort", string(catalog.SortNewest), "newest|price_asc|price_desc|name_asc|name_desc")
	f.IntVar(&opts.pageSize, "page-size", 0, "products per page (default from PAGE_SIZE)")
	f.IntVar(&opts.pages, "pages", 1, "number of pages to reveal")

	return cmd
}

func (o *catalogOptions) query(app *storefront.App) catalog.Query {
	q := app.Browser().Query()
	q.Search = o.search
	q.Category = o.category
	q.PriceMin = o.minPrice
	q.PriceMax = o.maxPrice
	q.Colors = o.colors
	q.Sizes = o.sizes
	q.Brands = o.brands
	q.MinRating = o.minRating
	q.Sort = catalog.SortKey(o.sort)
	if o.pageSize > 0 {
		q.PageSize = o.pageSize
	}
	q.PageCount = o.pages
	return q
}
