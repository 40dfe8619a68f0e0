package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/favorite"
	"storefront/internal/order"
	"storefront/internal/payment"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Emit writes v as indented JSON, or calls text in text mode.
func (f *OutputFormatter) Emit(v any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(f.Writer)
	return nil
}

func (f *OutputFormatter) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return f.Emit(map[string]string{"message": msg}, func(w io.Writer) {
		fmt.Fprintln(w, msg)
	})
}

func price(v int64) string {
	return payment.FormatAmount(v)
}

func writeView(w io.Writer, v catalog.View) {
	for _, p := range v.Items {
		fmt.Fprintf(w, "%-12s %-28s %-12s %12s  %.1f★  %s\n",
			p.ID, p.Name, p.Category, price(p.Price), p.Rating, strings.Join(p.Colors, ","))
	}
	more := ""
	if v.HasMore {
		more = " (more available)"
	}
	fmt.Fprintf(w, "showing %d of %d%s\n", len(v.Items), v.TotalMatched, more)
}

func writeCart(w io.Writer, s cart.State) {
	if s.IsEmpty() {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	for _, it := range s.Items {
		fmt.Fprintf(w, "%-12s %-28s %3d x %12s  %s/%s\n",
			it.ProductID, it.Name, it.Quantity, price(it.UnitPrice), it.VariantSize, it.VariantColor)
	}
	fmt.Fprintf(w, "%d items, total %s\n", s.TotalItemCount, price(s.TotalAmount))
}

func writeFavorites(w io.Writer, items []favorite.Product) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no favorites")
		return
	}
	for _, p := range items {
		fmt.Fprintf(w, "%-12s %-28s %12s\n", p.ProductID, p.Name, price(p.UnitPrice))
	}
}

func writeOrderLine(w io.Writer, o order.Order) {
	fmt.Fprintf(w, "%-32s %s  %-10s %-13s %12s\n",
		o.ID, o.OrderDate.Format("2006-01-02 15:04"), o.OrderStatus, o.PaymentMethod, price(o.TotalAmount+o.ShippingFee))
}

func writeOrder(w io.Writer, o order.Order) {
	fmt.Fprintf(w, "order     %s\n", o.ID)
	fmt.Fprintf(w, "placed    %s\n", o.OrderDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "status    %s\n", o.OrderStatus)
	fmt.Fprintf(w, "delivery  %s\n", o.EstimatedDelivery.Format("2006-01-02"))
	fmt.Fprintf(w, "ship to   %s, %s, %s\n", o.ShippingInfo.RecipientName, o.ShippingInfo.Address, o.ShippingInfo.Phone)
	fmt.Fprintf(w, "payment   %s\n", o.PaymentMethod)
	for _, it := range o.Items {
		fmt.Fprintf(w, "  %-12s %-28s %3d x %12s\n", it.ProductID, it.Name, it.Quantity, price(it.UnitPrice))
	}
	fmt.Fprintf(w, "subtotal  %s\n", price(o.TotalAmount))
	fmt.Fprintf(w, "shipping  %s\n", price(o.ShippingFee))
	fmt.Fprintf(w, "total     %s\n", price(o.TotalAmount+o.ShippingFee))
}
